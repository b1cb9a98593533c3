// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"testing"
	"time"

	"github.com/momeni/flexilease/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("2h30m")))
	assert.Equal(t, 150*time.Minute, time.Duration(d))
	assert.Equal(t, "2h30m", d.String())
	assert.Error(t, d.UnmarshalText([]byte("two hours")))
	assert.Equal(t, 150*time.Minute, time.Duration(d))

	assert.Equal(t, "24h", settings.Duration(24*time.Hour).String())
	assert.Equal(t, "5m", settings.Duration(5*time.Minute).String())
	assert.Equal(t, "1.5s", settings.Duration(1500*time.Millisecond).String())
}

func TestDefault(t *testing.T) {
	var p *int
	settings.Default(&p, 20)
	require.NotNil(t, p)
	assert.Equal(t, 20, *p)
	settings.Default(&p, 30)
	assert.Equal(t, 20, *p)
}

func TestWithin(t *testing.T) {
	one, hundred := 1, 100
	v := 50
	assert.NoError(t, settings.Within(&v, &one, &hundred))
	assert.NoError(t, settings.Within(nil, &one, &hundred))
	v = 500
	assert.NoError(t, settings.Within(&v, &one, nil))

	err := settings.Within(&v, &one, &hundred)
	var re *settings.RangeError[int]
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 500, re.Value)
	assert.EqualError(t, err, "500 is greater than 100")
	assert.Equal(t, 500, v)

	v = 0
	assert.EqualError(t, settings.Within(&v, &one, nil), "0 is less than 1")

	short := settings.Duration(time.Second)
	minLifetime := settings.Duration(time.Minute)
	assert.EqualError(t,
		settings.Within(&short, &minLifetime, nil), "1s is less than 1m",
	)
}
