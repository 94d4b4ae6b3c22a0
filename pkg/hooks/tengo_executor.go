package hooks

import (
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	pkgerrors "github.com/glorpus-work/tenget/pkg/errors"
)

// TengoExecutor handles the execution of Tengo hook scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the specified hook type with the given context. Hook types
// without a registered script are a no-op.
func (e *TengoExecutor) Execute(hookType HookType, ctx HookContext) error {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	script, exists := e.scripts[hookType]
	if !exists {
		return nil
	}

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "times"))

	vars := map[string]interface{}{
		"productName":    ctx.ProductName,
		"productVersion": ctx.ProductVersion,
		"artifactName":   ctx.ArtifactName,
		"artifactPath":   ctx.ArtifactPath,
		"downloadUrl":    ctx.DownloadURL,
	}
	for k, v := range ctx.Vars {
		vars[k] = v
	}
	for k, v := range vars {
		if err := scriptInstance.Add(k, v); err != nil {
			return pkgerrors.Wrapf(err, "failed to add variable %q to %s hook", k, hookType)
		}
	}

	if _, err := scriptInstance.Run(); err != nil {
		return pkgerrors.Wrapf(pkgerrors.ErrHookScript, "%s hook: %v", hookType, err)
	}
	return nil
}

// AddHook registers or replaces the script for a hook type.
func (e *TengoExecutor) AddHook(hook Hook) error {
	if hook.Type == "" {
		return pkgerrors.Wrapf(pkgerrors.ErrHookLoad, "hook type cannot be empty")
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hook.Type] = hook.Content
	return nil
}

// HasHook checks if a script exists for the specified hook type.
func (e *TengoExecutor) HasHook(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
