// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine, so the configuration
// adapter can create and tune one without importing the framework.
package gin

import "github.com/gin-gonic/gin"

type (
	HandlerFunc = gin.HandlerFunc
	Engine      = gin.Engine
)

// New creates a bare engine and registers the given middlewares.
// Handlers pass their *gin.Context to use cases as a context.Context,
// so its values fall back to the request context values.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// SetReleaseMode disables the debug mode messages of gin.
func SetReleaseMode() {
	gin.SetMode(gin.ReleaseMode)
}
