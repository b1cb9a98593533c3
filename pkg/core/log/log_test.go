// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/flexilease/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	uid := uuid.New()
	ctx := log.With(context.Background(), log.UUID("user_id", uid))
	ctx = log.With(ctx, slog.String("schema", "flweb1"))
	log.Info(ctx, "reserved", slog.Int("days", 5))
	log.Debug(ctx, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "reserved", rec["msg"])
	assert.Equal(t, uid.String(), rec["user_id"])
	assert.Equal(t, "flweb1", rec["schema"])
	assert.EqualValues(t, 5, rec["days"])

	bare := context.Background()
	assert.Equal(t, bare, log.With(bare))
}
