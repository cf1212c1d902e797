package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/hupe1980/closestpos"
	"github.com/hupe1980/closestpos/handle"
	"github.com/hupe1980/closestpos/internal/config"
	"github.com/hupe1980/closestpos/internal/pointsource"
	"github.com/spf13/cobra"
)

// session is one loaded point file indexed by a standalone service.
type session struct {
	cfg     *config.Config
	metrics *closestpos.BasicMetricsCollector
	svc     *closestpos.Service
	caller  *closestpos.MemCaller
	src     pointsource.Source
	offset  int
	index   handle.Handle
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	applySourceFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applySourceFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if v, _ := f.GetInt("block-size"); v > 0 {
		cfg.Points.BlockSize = v
	}
	if v, _ := f.GetInt("offset"); v >= 0 {
		cfg.Points.Offset = v
	}
	if v, _ := f.GetInt("header-bytes"); v >= 0 {
		cfg.Points.HeaderBytes = v
	}
	if v, _ := f.GetString("table"); v != "" {
		cfg.Points.Table = v
	}
	if v, _ := f.GetStringSlice("columns"); len(v) > 0 {
		cfg.Points.Columns = v
	}
}

func newLogger(w io.Writer, cfg *config.Config) (*closestpos.Logger, error) {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.JSON() {
		return closestpos.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return closestpos.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func openSession(cmd *cobra.Command, path string) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return nil, err
	}

	format, _ := cmd.Flags().GetString("format")
	src, err := pointsource.Load(cmd.Context(), path, func(o *pointsource.Options) {
		o.Format = pointsource.Format(format)
		o.BlockSize = cfg.Points.BlockSize
		o.Offset = cfg.Points.Offset
		o.HeaderBytes = cfg.Points.HeaderBytes
		o.Table = cfg.Points.Table
		if len(cfg.Points.Columns) == 3 {
			o.Columns = [3]string(cfg.Points.Columns)
		}
	})
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		metrics: &closestpos.BasicMetricsCollector{},
		src:     src,
		offset:  cfg.Points.Offset,
	}
	if err := s.build(cmd, logger); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) build(cmd *cobra.Command, logger *closestpos.Logger) error {
	host, arrays, err := closestpos.NewStandaloneHost(func(o *handle.Options) {
		if s.cfg.MaxHandles > 0 {
			o.MaxHandles = s.cfg.MaxHandles
		}
	})
	if err != nil {
		return err
	}

	opts := []closestpos.Option{
		closestpos.WithLogger(logger),
		closestpos.WithMetricsCollector(s.metrics),
		closestpos.WithMemoryLimit(s.cfg.MemoryLimit),
	}
	if s.cfg.TypeName != "" {
		opts = append(opts, closestpos.WithTypeName(s.cfg.TypeName))
	}
	if s.cfg.ArrayTypeName != "" && s.cfg.ArrayTypeName != closestpos.DefaultArrayTypeName {
		if arrays, err = closestpos.RegisterArrayType(host, s.cfg.ArrayTypeName); err != nil {
			return err
		}
		opts = append(opts, closestpos.WithArrayTypeName(s.cfg.ArrayTypeName))
	}

	if s.svc, err = closestpos.New(host, opts...); err != nil {
		return err
	}

	s.caller = closestpos.NewMemCaller(handle.NewIdentity("cli", nil), 3)

	array, err := arrays.Create(s.src, s.caller.Identity())
	if err != nil {
		return err
	}

	var createOpts []closestpos.CreateOption
	if v, _ := cmd.Flags().GetInt("start"); v != 0 {
		createOpts = append(createOpts, closestpos.WithStart(v))
	}
	if cmd.Flags().Changed("count") {
		v, _ := cmd.Flags().GetInt("count")
		createOpts = append(createOpts, closestpos.WithCount(v))
	}

	s.index, err = s.svc.Create(s.caller, array, s.offset, createOpts...)
	if err != nil {
		return err
	}

	// The index keeps no reference to the array once built.
	return arrays.Free(array, s.caller.Identity())
}

// find stores q in the caller heap and queries the index through it.
func (s *session) find(q [3]float32) (int32, error) {
	if err := s.caller.StoreVec3(0, q); err != nil {
		return closestpos.NotFound, err
	}
	return s.svc.Find(s.caller, s.index, 0)
}

func (s *session) Close() error {
	var err error
	if s.svc != nil {
		err = s.svc.Close()
	}
	if cerr := s.src.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func parseVec3(args []string) ([3]float32, error) {
	var v [3]float32
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return v, fmt.Errorf("coordinate %q: %w", a, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
