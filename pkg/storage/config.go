package storage

import (
	"fmt"
	"os"
)

// Config holds Azure Blob Storage connection parameters. Either a
// connection string or a storage account name must be provided; the
// account name form authenticates through the default credential chain.
type Config struct {
	AccountName      string `toml:"account_name"`
	ConnectionString string `toml:"connection_string"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	AccountName      string
	ConnectionString string
}

// AccountURL returns the blob service endpoint for the configured account.
func (c *Config) AccountURL() string {
	return fmt.Sprintf("https://%s.blob.core.windows.net", c.AccountName)
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.AccountName != "" {
		c.AccountName = overlay.AccountName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.AccountName != "" {
		if v := os.Getenv(env.AccountName); v != "" {
			c.AccountName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
}

func (c *Config) validate() error {
	if c.AccountName == "" && c.ConnectionString == "" {
		return fmt.Errorf("account_name or connection_string required")
	}
	return nil
}
