// Package inmemdb provides map-backed repositories for tests and local
// development runs that do not need a real database.
package inmemdb

import (
	"sync"

	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/grading"
	"github.com/chumcred/academy/core/submission"
	"github.com/chumcred/academy/core/user"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		submission *submissionTable
		grade      *gradeTable
	}

	userTable struct {
		t     map[string]*user.User
		mutex sync.RWMutex
	}

	courseTable struct {
		modules     map[int]*course.Module
		materials   map[string]*course.Material
		assignments map[int]*course.Assignment
		mutex       sync.RWMutex
	}

	// studentWeek keys the one-row-per-(student, week) tables.
	studentWeek struct {
		studentID string
		week      int
	}

	submissionTable struct {
		t     map[studentWeek]*submission.Submission
		mutex sync.RWMutex
	}

	gradeTable struct {
		t     map[studentWeek]*grading.Grade
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{t: make(map[string]*user.User)},
		course: &courseTable{
			modules:     make(map[int]*course.Module),
			materials:   make(map[string]*course.Material),
			assignments: make(map[int]*course.Assignment),
		},
		submission: &submissionTable{t: make(map[studentWeek]*submission.Submission)},
		grade:      &gradeTable{t: make(map[studentWeek]*grading.Grade)},
	}
	return db, nil
}
