// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authrs realizes the authentication resource which issues
// access tokens, and provides a middleware which protects other routes
// by requiring those tokens.
package authrs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/cerr"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/momeni/flexilease/pkg/core/usecase/authuc"
)

const userIDKey = "flweb.user_id"

type resource struct {
	auth *authuc.UseCase
}

type rawAuthReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register instantiates a resource adapting the auth use case instance
// with the POST request to /api/flweb/v1/authenticate which returns a
// bearer token for a registered email and password.
func Register(r *gin.RouterGroup, auth *authuc.UseCase) {
	rs := &resource{auth: auth}
	r.POST("authenticate", rs.Authenticate)
}

func (rs *resource) Authenticate(c *gin.Context) {
	req := &rawAuthReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	token, err := rs.auth.Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
	})
}

// Middleware returns a handler which aborts requests without a valid
// "Authorization: Bearer <token>" header with 401 status code.
// Accepted requests carry the authenticated user ID which may be
// obtained by the UserID function.
func Middleware(auth *authuc.UseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			serdser.SerErr(c, cerr.Unauthenticated(
				errors.New("bearer token is required"),
			))
			c.Abort()
			return
		}
		uid, err := auth.Verify(c, strings.TrimSpace(token))
		if err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		c.Set(userIDKey, uid)
		c.Request = c.Request.WithContext(log.With(
			c.Request.Context(), log.UUID("user_id", uid),
		))
		c.Next()
	}
}

// UserID returns the authenticated user ID of c, as stored by the
// Middleware handler.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	uid, ok := v.(uuid.UUID)
	return uid, ok
}
