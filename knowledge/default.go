/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package knowledge

import (
	"context"
	"embed"
	"sync"

	"github.com/sethvargo/go-envconfig"
)

//go:embed standards/aips/*.yaml standards/org/*.yaml
var builtin embed.FS

type env struct {
	StandardsDir string `env:"STANDARDS_DIR"`
}

var (
	defaultOnce sync.Once
	defaultBase *Base
	defaultErr  error
)

// Default returns the process-wide standards base. The compiled-in standards
// bundle is used unless STANDARDS_DIR points at an alternate directory.
// Callers that want isolation (tests, embedders) should use Load or LoadFS
// directly instead.
func Default(ctx context.Context) (*Base, error) {
	defaultOnce.Do(func() {
		var cfg env
		if defaultErr = envconfig.Process(ctx, &cfg); defaultErr != nil {
			return
		}
		if cfg.StandardsDir != "" {
			defaultBase, defaultErr = Load(ctx, cfg.StandardsDir)
			return
		}
		defaultBase, defaultErr = LoadFS(ctx, builtin, "standards")
	})
	return defaultBase, defaultErr
}
