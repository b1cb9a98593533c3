// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by all resource packages.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/model"
)

// Bind deserializes the c request into req using the b binding and
// validates it. In case of errors, a 400 (or 500 for programming
// errors) response is written and false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(
	errs *map[string][]string, ok bool, name string, msgs ...string,
) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// ParamID parses the name path param as a UUID. A 400 response is
// written if it is malformed.
func ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		var errs map[string][]string
		AddErr(&errs, name, "Path param "+name+" is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return id, true
}

// PageReq is embedded in the listing query params.
type PageReq struct {
	Limit  int `form:"limit" binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ToModel converts p to a model.Page.
func (p PageReq) ToModel() model.Page {
	return model.Page{Limit: p.Limit, Offset: p.Offset}
}

// StatusCode maps the kind of a cerr error to its HTTP status code.
// Unclassified errors are reported as internal server errors.
func StatusCode(err error) int {
	switch cerr.KindOf(err) {
	case cerr.KindInvalidDate, cerr.KindInvalidRange,
		cerr.KindUnqualified, cerr.KindBadRequest:
		return http.StatusBadRequest
	case cerr.KindNotFound:
		return http.StatusNotFound
	case cerr.KindConflict:
		return http.StatusConflict
	case cerr.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// SerErr writes err as a JSON response. Classified errors expose
// their kind and subject, so clients can tell which check failed.
func SerErr(c *gin.Context, err error) {
	code := StatusCode(err)
	var ce *cerr.Error
	if !errors.As(err, &ce) || code == http.StatusInternalServerError {
		c.JSON(code, gin.H{
			"detail": http.StatusText(code),
		})
		return
	}
	resp := gin.H{
		"kind":   ce.Kind.String(),
		"detail": err.Error(),
	}
	if ce.Subject != "" {
		resp["subject"] = ce.Subject
	}
	c.JSON(code, resp)
}
