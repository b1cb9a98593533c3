// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strings"

	"github.com/google/uuid"
)

// User models a registered customer. Only qualified users may hold
// reservations. The Password field keeps a hashed credential and is
// never serialized towards clients.
type User struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	CPF       string        `json:"cpf"`
	Birth     Date          `json:"birth"`
	Email     string        `json:"email"`
	Password  string        `json:"-"`
	CEP       string        `json:"cep"`
	Qualified Qualification `json:"qualified"`
	Address   Address       `json:"address"`
}

// Address is filled from a postal code (CEP) lookup whenever a user
// is created or updated.
type Address struct {
	Street       string `json:"street"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	Locality     string `json:"locality"`
	State        string `json:"state"`
}

// Qualification reports if a user is allowed to drive. It is kept as
// text for compatibility with existing records. Both English and
// Portuguese affirmative answers are accepted.
type Qualification string

// Canonical Qualification values.
const (
	QualificationYes Qualification = "yes"
	QualificationNo  Qualification = "no"
)

// IsQualified reports whether q is an accepted affirmative value.
func (q Qualification) IsQualified() bool {
	switch strings.ToLower(strings.TrimSpace(string(q))) {
	case "yes", "sim":
		return true
	default:
		return false
	}
}

// ValidCPF reports whether cpf is a valid Brazilian national id.
// Punctuation is ignored, so both 529.982.247-25 and 52998224725 are
// accepted. Sequences of one repeated digit are rejected even though
// their check digits match.
func ValidCPF(cpf string) bool {
	digits := make([]int, 0, 11)
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return false
	}
	same := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}
	return cpfCheckDigit(digits[:9]) == digits[9] &&
		cpfCheckDigit(digits[:10]) == digits[10]
}

func cpfCheckDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return r
}
