package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chumcred/academy/core/certificate"
	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/grading"
	"github.com/chumcred/academy/core/submission"
	"github.com/chumcred/academy/core/user"
	testutil "github.com/chumcred/academy/tests"
)

// gradeAllWeeks submits and grades every module for the student.
func gradeAllWeeks(t *testing.T, admin user.User, studentID string, scores []float64) {
	t.Helper()
	ctx := context.Background()
	for i, score := range scores {
		week := course.MinWeek + i
		_, err := subSvc.Submit(ctx, submission.NewSubmission{StudentID: studentID, Week: week, Note: "done"})
		require.NoError(t, err)
		_, err = grdSvc.Grade(ctx, admin, grading.GradeInput{StudentID: studentID, Week: week, Score: score})
		require.NoError(t, err)
	}
}

func Test_certificateApi_eligibility(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAdmin(t, usrRepo, "Admin", "admin", "admin@test.cd", "")
	alice := testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "")
	bob := testutil.CreateStudent(t, usrRepo, "Bob", "bob", "bob@test.cd", "")

	gradeAllWeeks(t, admin, alice.ID, []float64{70, 65, 80, 60, 90, 55})

	t.Run("eligible student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+alice.ID+"/certificate/eligibility", getToken(t, alice))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var elig certificate.Eligibility
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &elig))
		assert.True(t, elig.Eligible)
		assert.InDelta(t, 70.0, elig.Average, 0.0001)
		assert.Empty(t, elig.MissingWeeks)
	})

	t.Run("missing grades", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+bob.ID+"/certificate/eligibility", getToken(t, bob))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var elig certificate.Eligibility
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &elig))
		assert.False(t, elig.Eligible)
		assert.Equal(t, certificate.ReasonMissingGrades, elig.Reason)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, elig.MissingWeeks)
	})

	t.Run("other students read as not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+alice.ID+"/certificate/eligibility", getToken(t, bob))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_certificateApi_download(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateAdmin(t, usrRepo, "Admin", "admin", "admin@test.cd", "")
	alice := testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "")
	bob := testutil.CreateStudent(t, usrRepo, "Bob", "bob", "bob@test.cd", "")

	gradeAllWeeks(t, admin, alice.ID, []float64{70, 65, 80, 60, 90, 55})
	gradeAllWeeks(t, admin, bob.ID, []float64{50, 50, 50, 50, 50, 50})

	t.Run("eligible student downloads a pdf", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+alice.ID+"/certificate", getToken(t, alice))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		disposition := rec.Header().Get("Content-Disposition")
		assert.True(t, strings.HasPrefix(disposition, `attachment; filename="certificate-`), disposition)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	})

	t.Run("admin can download on behalf", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+alice.ID+"/certificate", getToken(t, admin))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	})

	t.Run("ineligible student gets a conflict with the reason", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+bob.ID+"/certificate", getToken(t, bob))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp struct {
			Error       string                  `json:"error"`
			Eligibility certificate.Eligibility `json:"eligibility"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "below the required")
		assert.Equal(t, certificate.ReasonBelowThreshold, resp.Eligibility.Reason)
		assert.InDelta(t, 50.0, resp.Eligibility.Average, 0.0001)
	})

	t.Run("other students read as not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+alice.ID+"/certificate", getToken(t, bob))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}
