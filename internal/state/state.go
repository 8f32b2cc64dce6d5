package state

import (
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
)

// State holds what the read-only endpoints share.
type State struct {
	DB     db.DB
	Config *config.Configuration
}
