// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
)

type rawUserReq struct {
	Name      string `json:"name" binding:"required"`
	CPF       string `json:"cpf" binding:"required"`
	Birth     string `json:"birth" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"omitempty,min=6"`
	CEP       string `json:"cep" binding:"required"`
	Qualified string `json:"qualified" binding:"required"`
}

type rawListUsersReq struct {
	Name         *string `form:"name"`
	CPF          *string `form:"cpf"`
	Birth        *string `form:"birth"`
	Email        *string `form:"email"`
	CEP          *string `form:"cep"`
	Qualified    *string `form:"qualified"`
	Street       *string `form:"street"`
	Complement   *string `form:"complement"`
	Neighborhood *string `form:"neighborhood"`
	Locality     *string `form:"locality"`
	State        *string `form:"state"`
	serdser.PageReq
}

// DserUserReq deserializes the user attributes from the request body.
// The password is mandatory if requirePass is true.
func (rs *resource) DserUserReq(
	c *gin.Context, requirePass bool,
) *usersuc.Params {
	req := &rawUserReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	serdser.Assert(
		&errs, !requirePass || req.Password != "",
		"password", "The password is required.",
	)
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &usersuc.Params{
		Name:      req.Name,
		CPF:       req.CPF,
		Birth:     req.Birth,
		Email:     req.Email,
		Password:  req.Password,
		CEP:       req.CEP,
		Qualified: model.Qualification(req.Qualified),
	}
}

func (rs *resource) DserListUsersReq(c *gin.Context) (
	model.UserFilter, model.Page, bool,
) {
	req := &rawListUsersReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return model.UserFilter{}, model.Page{}, false
	}
	return model.UserFilter{
		Name:         req.Name,
		CPF:          req.CPF,
		Birth:        req.Birth,
		Email:        req.Email,
		CEP:          req.CEP,
		Qualified:    req.Qualified,
		Street:       req.Street,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		Locality:     req.Locality,
		State:        req.State,
	}, req.ToModel(), true
}
