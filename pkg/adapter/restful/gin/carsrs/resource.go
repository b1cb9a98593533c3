// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars
// manipulation REST APIs to be accepted and delegated to the
// cars use cases respectively.
package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/flexilease/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. POST request to /api/flweb/v1/cars in order to create a car,
//  2. GET request to /api/flweb/v1/cars in order to list cars,
//  3. GET request to /api/flweb/v1/cars/:cid in order to find a car,
//  4. PUT request to /api/flweb/v1/cars/:cid in order to replace a car,
//  5. DELETE request to /api/flweb/v1/cars/:cid in order to delete a
//     car besides all of its reservations.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.POST("cars", rs.CreateCar)
	r.GET("cars", rs.ListCars)
	r.GET("cars/:cid", rs.GetCar)
	r.PUT("cars/:cid", rs.UpdateCar)
	r.DELETE("cars/:cid", rs.DeleteCar)
}

func (rs *resource) CreateCar(c *gin.Context) {
	req := rs.DserCarReq(c)
	if req == nil {
		return
	}
	car, err := rs.cars.Create(c, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (rs *resource) ListCars(c *gin.Context) {
	f, p, ok := rs.DserListCarsReq(c)
	if !ok {
		return
	}
	cars, err := rs.cars.List(c, f, p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetCar(c *gin.Context) {
	cid, ok := serdser.ParamID(c, "cid")
	if !ok {
		return
	}
	car, err := rs.cars.Get(c, cid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	cid, ok := serdser.ParamID(c, "cid")
	if !ok {
		return
	}
	req := rs.DserCarReq(c)
	if req == nil {
		return
	}
	car, err := rs.cars.Update(c, cid, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	cid, ok := serdser.ParamID(c, "cid")
	if !ok {
		return
	}
	if err := rs.cars.Delete(c, cid); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
