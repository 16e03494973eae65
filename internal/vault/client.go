package vault

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/vault/api"

	"univoice/internal/config"
)

// Client wraps the HashiCorp Vault KV store for secret bootstrap. Only the
// secrets the application needs at startup are read; everything else stays
// in environment configuration.
type Client struct {
	client     *api.Client
	secretPath string
}

// NewClient creates a new Vault client
func NewClient(cfg *config.VaultConfig) (*Client, error) {
	apiConfig := api.DefaultConfig()
	apiConfig.Address = cfg.Address

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &Client{
		client:     client,
		secretPath: cfg.SecretPath,
	}, nil
}

// Health checks Vault health status
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}
	if !health.Initialized {
		return fmt.Errorf("vault is not initialized")
	}
	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}
	return nil
}

// GetSecrets reads the application secret bundle from the configured KV path
func (c *Client) GetSecrets() (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	secret, err := c.client.Logical().ReadWithContext(ctx, c.secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at %s", c.secretPath)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret data format")
	}
	return data, nil
}

// ApplySecrets overlays Vault-held secrets onto the configuration. Missing
// keys keep their environment-provided values, so a partially populated
// secret bundle is fine.
func ApplySecrets(cfg *config.Config) error {
	if !cfg.Vault.Enabled {
		return nil
	}

	client, err := NewClient(&cfg.Vault)
	if err != nil {
		return err
	}
	if err := client.Health(); err != nil {
		return err
	}

	secrets, err := client.GetSecrets()
	if err != nil {
		return err
	}

	if v, ok := secrets["jwt_secret"].(string); ok && v != "" {
		cfg.JWT.Secret = v
	}
	if v, ok := secrets["db_password"].(string); ok && v != "" {
		cfg.Database.Password = v
	}
	if v, ok := secrets["smtp_password"].(string); ok && v != "" {
		cfg.Email.SMTPPassword = v
	}

	slog.Info("Secrets loaded from vault", "path", cfg.Vault.SecretPath)
	return nil
}
