package httpapi

import (
	"sync/atomic"

	"github.com/torkay/prospect-command-center/internal/config"
	"github.com/torkay/prospect-command-center/internal/job"
	"github.com/torkay/prospect-command-center/internal/store"
)

type Deps struct {
	DB   *store.DB
	Jobs *job.Manager

	// Atomic store holding config.Config
	CfgVal *atomic.Value

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
