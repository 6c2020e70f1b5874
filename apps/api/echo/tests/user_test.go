package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chumcred/academy/core/user"
	testutil "github.com/chumcred/academy/tests"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "s3cr3tpwd")
	testutil.CreateUser(t, usrRepo, "Ghost", "ghost", "ghost@test.cd", "s3cr3tpwd", user.RoleStudent, false)

	badCreds := marchallObj(t, httpErr{Error: "invalid credentials"})

	tests := []httpTest{
		{
			name: "ok", body: marchallObj(t, map[string]string{"username": "alice", "password": "s3cr3tpwd"}),
			wantCode: http.StatusOK,
		},
		{
			name: "unknown username", body: marchallObj(t, map[string]string{"username": "nobody", "password": "s3cr3tpwd"}),
			wantCode: http.StatusBadRequest, wantData: badCreds,
		},
		{
			name: "wrong password", body: marchallObj(t, map[string]string{"username": "alice", "password": "nope"}),
			wantCode: http.StatusBadRequest, wantData: badCreds,
		},
		{
			name: "deactivated account", body: marchallObj(t, map[string]string{"username": "ghost", "password": "s3cr3tpwd"}),
			wantCode: http.StatusBadRequest, wantData: badCreds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "ok" {
				require.Equal(t, http.StatusOK, rec.Code)
				var resp struct {
					Token string `json:"token"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAdmin(t, usrRepo, "Admin", "admin", "admin@test.cd", "")
	student := testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "")

	body := marchallObj(t, map[string]string{
		"name": "Bob Mark", "username": "bob", "email": "bob@test.cd",
		"password": "s3cr3tpwd", "password_confirm": "s3cr3tpwd", "role": user.RoleStudent,
	})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", body: body, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "ok", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
		{
			name: "duplicate username", body: body, token: getToken(t, admin),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "a user with this username already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "ok" {
				require.Equal(t, http.StatusCreated, rec.Code)
				var created user.User
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
				assert.Equal(t, "bob", created.Username)
				assert.True(t, created.IsActive)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAdmin(t, usrRepo, "Admin", "admin", "admin@test.cd", "")
	alice := testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "")
	bob := testutil.CreateStudent(t, usrRepo, "Bob", "bob", "bob@test.cd", "")

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/users/" + alice.ID,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "owner can read themselves", path: "/v1/users/" + alice.ID, token: getToken(t, alice),
			wantCode: http.StatusOK, wantData: marchallObj(t, alice),
		},
		{
			name: "admin can read anyone", path: "/v1/users/" + alice.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, alice),
		},
		{
			name: "other students read as not found", path: "/v1/users/" + alice.ID, token: getToken(t, bob),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_deactivate(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAdmin(t, usrRepo, "Admin", "admin", "admin@test.cd", "")
	alice := testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "s3cr3tpwd")

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/"+alice.ID+"/deactivate", getToken(t, admin))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// the deactivated student can no longer log in
	body := marchallObj(t, map[string]string{"username": "alice", "password": "s3cr3tpwd"})
	req, rec = newRequest(http.MethodPost, "/v1/users/login", body)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
