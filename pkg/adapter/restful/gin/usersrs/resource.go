// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource, allowing the users
// registration and manipulation REST APIs to be accepted and delegated
// to the users use cases respectively.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/usecase/usersuc"
)

type resource struct {
	users *usersuc.UseCase
}

// Register instantiates a resource adapting the users use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/flweb/v1/users in order to register a user,
//  2. GET request to /api/flweb/v1/users in order to list users,
//  3. GET request to /api/flweb/v1/users/:uid in order to find a user,
//  4. PUT request to /api/flweb/v1/users/:uid in order to update a
//     user (an empty password keeps the current one),
//  5. DELETE request to /api/flweb/v1/users/:uid in order to delete a
//     user besides all of its reservations.
func Register(r *gin.RouterGroup, users *usersuc.UseCase) {
	rs := &resource{users: users}
	r.POST("users", rs.CreateUser)
	r.GET("users", rs.ListUsers)
	r.GET("users/:uid", rs.GetUser)
	r.PUT("users/:uid", rs.UpdateUser)
	r.DELETE("users/:uid", rs.DeleteUser)
}

func (rs *resource) CreateUser(c *gin.Context) {
	req := rs.DserUserReq(c, true)
	if req == nil {
		return
	}
	u, err := rs.users.Create(c, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (rs *resource) ListUsers(c *gin.Context) {
	f, p, ok := rs.DserListUsersReq(c)
	if !ok {
		return
	}
	users, err := rs.users.List(c, f, p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (rs *resource) GetUser(c *gin.Context) {
	uid, ok := serdser.ParamID(c, "uid")
	if !ok {
		return
	}
	u, err := rs.users.Get(c, uid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) UpdateUser(c *gin.Context) {
	uid, ok := serdser.ParamID(c, "uid")
	if !ok {
		return
	}
	req := rs.DserUserReq(c, false)
	if req == nil {
		return
	}
	u, err := rs.users.Update(c, uid, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (rs *resource) DeleteUser(c *gin.Context) {
	uid, ok := serdser.ParamID(c, "uid")
	if !ok {
		return
	}
	if err := rs.users.Delete(c, uid); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
