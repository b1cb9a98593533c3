// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the flweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items), so they
// are validated again in the relevant end-component such as a UseCase.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/flexilease/pkg/adapter/config/settings"
	"github.com/momeni/flexilease/pkg/adapter/db/postgres/migration"
	"github.com/momeni/flexilease/pkg/adapter/restful/gin"
	"github.com/momeni/flexilease/pkg/core/model"
	"github.com/momeni/flexilease/pkg/core/repo"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Supported values of the Config.Store setting.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is implemented with
// primitive fields or structs which are defined locally, not models or
// structs which are defined in lower layers, so the configuration can
// be kept intact while other layers change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings

	// Store selects the storage backend, either postgres (default)
	// or memory. The memory store keeps no data across restarts.
	Store string `yaml:"store,omitempty"`

	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // Access tokens settings
	CEP      CEP      `yaml:"cep"` // Postal code lookup settings
	Usecases Usecases // Configuration settings for supported use cases

	// Versions of this file format and of the database schema which
	// the Database settings refer to.
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema
// versions. They are decoded before the rest of a file, so an
// unsupported file is reported by its version instead of by a
// confusing field error.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// checkConfig returns an error unless this binary can read a
// configuration file with the v.Config format version.
func (v Versions) checkConfig() error {
	if !Version.Reads(v.Config) {
		return fmt.Errorf(
			"config version %v is not readable by v%d.%d",
			v.Config, Major, Minor,
		)
	}
	return nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their defaults.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware

	// Address is the listening address, like :8080 (default).
	Address string `yaml:"address,omitempty"`
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
// The corresponding database schema version must also be supported.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var head struct {
		Versions Versions `yaml:"versions"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	if err := head.Versions.checkConfig(); err != nil {
		return nil, err
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Versions.checkConfig(); err != nil {
		return err
	}
	switch c.Store {
	case "":
		c.Store = StorePostgres
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unsupported store: %q", c.Store)
	}
	if c.Store == StorePostgres {
		if _, err := migration.LatestVersion(
			c.SchemaVersion(),
		); err != nil {
			return fmt.Errorf("database schema version: %w", err)
		}
	}
	settings.Default(&c.Gin.Logger, false)
	settings.Default(&c.Gin.Recovery, false)
	if c.Gin.Address == "" {
		c.Gin.Address = ":8080"
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Auth.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.CEP.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating cep settings: %w", err)
	}
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating usecases settings: %w", err)
	}
	return nil
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Versions.Database
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s:%d/%s: %w",
			c.Database.Host, c.Database.Port, c.Database.Name, err,
		)
	}
	return p, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// SchemaInitializer creates a repo.SchemaInitializer instance which
// wraps the given transaction argument and can be used to initialize
// the database with development or production suitable data. The
// format of the created tables is chosen based on SchemaVersion.
func (c *Config) SchemaInitializer(tx repo.Tx) (
	repo.SchemaInitializer, error,
) {
	return migration.NewInitializer(tx, c.SchemaVersion())
}

// RenewPasswords generates new secure passwords for the given roles,
// records them in the .pgpass.new file, and calls `change` in order
// to update them in the database too. See Database.RenewPasswords.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}
