// Package tools wires the module's built-in tool implementations into a
// registry.Registry. It is the one place that needs to know about every
// concrete tool; cmd/server and tests depend on this package instead of
// importing each tools/* package individually.
package tools

import (
	"github.com/harshj20/taskflow/pkg/config"
	"github.com/harshj20/taskflow/pkg/registry"
	"github.com/harshj20/taskflow/tools/echo"
	"github.com/harshj20/taskflow/tools/httpfetch"
	"github.com/harshj20/taskflow/tools/validate"
)

// RegisterDefaults registers every built-in tool into reg, using cfg to
// configure tools that need it (currently only http_fetch's network-access
// policy). It panics on a duplicate registration, which can only happen if
// this function is called twice against the same registry.
func RegisterDefaults(reg *registry.Registry, cfg *config.Config) {
	reg.MustRegister(echo.New())
	reg.MustRegister(validate.New())
	reg.MustRegister(httpfetch.New(cfg))
}
