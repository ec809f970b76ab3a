// Package config holds formatter layout options and the service
// configuration file.
//
// [Options] carries rank direction, spline routing, overlap handling, node
// and rank separation and the zoom toggle. [FromHost] maps the dashboard
// host's dotted setting keys onto Options, falling back to [Defaults] for
// anything missing.
//
// [Load] reads an optional TOML or YAML file with layout, server, cache and
// store sections; [File.ApplyEnv] then applies DAGVIEWER_* overrides.
package config
