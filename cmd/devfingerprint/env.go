package main

import (
	"log/slog"

	"github.com/nao1215/devfingerprint/internal/collector"
	"github.com/nao1215/devfingerprint/internal/config"
	"github.com/nao1215/devfingerprint/internal/drm"
	"github.com/nao1215/devfingerprint/internal/probe"
)

// buildEnv creates the collection environment from the configuration.
// Config file values replace the defaults field by field.
func buildEnv(cfg *config.Config, logger *slog.Logger) collector.Env {
	layout := collector.DefaultLayout()
	f := cfg.File
	if f != nil {
		applyLayout(&layout, f)
	}

	env := collector.NewEnvWithLayout(cfg.EffectiveSysroot(), layout, logger)
	if f == nil {
		return env
	}

	if len(f.Properties) > 0 {
		env.BuildProps = probe.ChainStore{probe.MapStore(f.Properties), env.BuildProps}
	}
	if len(f.Runtime) > 0 {
		env.RuntimeProps = probe.NewRuntimeStore(f.Runtime)
	}
	if f.DRM.DeviceIDFile != "" {
		env.DRM = drm.FileProvider{Path: f.DRM.DeviceIDFile}
	}
	return env
}

// applyLayout copies the non-empty config file settings onto layout.
func applyLayout(layout *collector.Layout, f *config.File) {
	if f.Storage.External != "" {
		layout.StoragePath = f.Storage.External
	}
	if f.Storage.Internal != "" {
		layout.InternalStoragePath = f.Storage.Internal
	}
	if len(f.BuildProp.Files) > 0 {
		layout.BuildPropFiles = f.BuildProp.Files
	}
	if len(f.BuildProp.Keys) > 0 {
		layout.BuildPropKeys = f.BuildProp.Keys
	}
	if len(f.Files.Other) > 0 {
		layout.OtherFiles = f.Files.Other
	}
	if f.Files.OtherLimit > 0 {
		layout.OtherFilesLimit = f.Files.OtherLimit
	}
	if len(f.Files.System) > 0 {
		layout.SystemFiles = f.Files.System
	}
	if len(f.Files.Additional) > 0 {
		layout.AdditionalFiles = f.Files.Additional
	}
	if f.Files.AdditionalLimit > 0 {
		layout.AdditionalFilesLimit = f.Files.AdditionalLimit
	}
	if len(f.Network.Interfaces) > 0 {
		layout.NetworkInterfaces = f.Network.Interfaces
	}
	if f.Network.WiFi != "" {
		layout.WiFiInterface = f.Network.WiFi
	}
}
