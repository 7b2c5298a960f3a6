package cli

import (
	"context"
	"fmt"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/manifest"
	"github.com/born-ml/opset/internal/ops"
	"k8s.io/klog/v2"
)

// buildRegistry returns the built-in operators plus every configured
// manifest, sealed.
func (o *options) buildRegistry(ctx context.Context) (*ir.Registry, error) {
	log := klog.FromContext(ctx)

	registry := ops.NewRegistry()
	for _, path := range o.cfg.Manifests {
		m, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		if err := m.CheckRequires(o.build.Version); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
		if err := m.Apply(registry); err != nil {
			return nil, err
		}
		log.V(2).Info("loaded manifest", "path", path, "operators", len(m.Operators))
	}
	registry.Seal()
	return registry, nil
}
