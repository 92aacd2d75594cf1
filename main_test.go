package main

import (
	"testing"
	"time"

	"quotebuilder/config"
	"quotebuilder/services"
)

func TestNewRenderer(t *testing.T) {
	cfg := config.FromEnv()
	if _, ok := newRenderer(cfg).(services.MarotoRenderer); !ok {
		t.Errorf("default renderer = %T, want MarotoRenderer", newRenderer(cfg))
	}

	cfg.PDFRenderer = config.RendererChrome
	cfg.ChromePath = "/opt/chrome"
	cfg.PDFTimeout = 45 * time.Second
	r, ok := newRenderer(cfg).(services.ChromeRenderer)
	if !ok {
		t.Fatalf("renderer = %T, want ChromeRenderer", newRenderer(cfg))
	}
	if r.Timeout != 45*time.Second || r.ExecPath != "/opt/chrome" || r.RenderHTML == nil {
		t.Errorf("chrome renderer not configured from config: %+v", r)
	}
}
