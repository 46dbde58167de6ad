package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
	"hug-studio-backend/internal/config"
)

// Client bundles the Supabase clients the server talks to. Both use the
// service-role key; nothing here is ever exposed to the browser.
type Client struct {
	Records *RecordsClient
	Storage *StorageClient
}

func NewClient(cfg *config.Config) (*Client, error) {
	rest, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	storage, err := NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	if err != nil {
		return nil, err
	}

	return &Client{
		Records: NewRecordsClient(rest),
		Storage: storage,
	}, nil
}
