// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the flat-file store, the reporting mirror, validation and the CLI can
// all import types without depending on each other.
package types

import "math"

// Role names as they are written in the "nivel" column.
const (
	RoleAdmin       = "Administrador"
	RoleCoordinator = "Coordenador"
	RoleProfessor   = "Professor"
	RoleStudent     = "Aluno"
)

// Status values used by the activate / deactivate operations.
//
// DefaultStatus is what the store writes when a record arrives with an
// empty status.
const (
	StatusActive   = "Ativo"
	StatusInactive = "Inativo"
	DefaultStatus  = "Active"
)

// User is one account line of the store file, in column order.
//
// Struct tags:
//
//  1. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-empty and
//     "acadmail" and "nodelim" are custom rules registered by the
//     validation package (email shape, and no ';' or line breaks that
//     would split a stored line).
//
//  2. json:"..." — used when the CLI prints a record as JSON.
//
// ID is never validated: the store assigns it on add and forces it on
// update.
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"nome"      validate:"required,nodelim"`
	Email    string  `json:"email"     validate:"required,nodelim,acadmail"`
	Password string  `json:"-"         validate:"required,nodelim"`
	Role     string  `json:"nivel"     validate:"required,nodelim"`
	Course   string  `json:"curso"     validate:"nodelim"`
	Class    string  `json:"turma"     validate:"nodelim"`
	Age      int     `json:"idade"     validate:"gte=0"`
	NP1      float64 `json:"np1"`
	NP2      float64 `json:"np2"`
	PIM      float64 `json:"pim"`
	Average  float64 `json:"media"`
	Status   string  `json:"atividade" validate:"nodelim"`
}

// ClassSummary is one row of the per-class report: how many students a
// class holds and the mean of their averages.
type ClassSummary struct {
	Class    string  `json:"turma"`
	Course   string  `json:"curso"`
	Students int     `json:"total_alunos"`
	Average  float64 `json:"media_geral"`
}

// WeightedAverage computes the final grade: both exams weigh 4 and the
// PIM project weighs 2. The result is rounded to two decimals, the same
// precision the store file keeps.
func WeightedAverage(np1, np2, pim float64) float64 {
	return Round2((np1*4 + np2*4 + pim*2) / 10)
}

// Round2 rounds v to two decimal digits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
