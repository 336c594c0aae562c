/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"reflect"

	"github.com/caiflower/http-stream/pkg/tools"
)

type Option func(*Options) *Options

type Options struct {
	Name               string `yaml:"name" default:"http-stream"`
	ServerHeader       string `yaml:"serverHeader" default:"http-stream"`
	ChunkSize          int    `yaml:"chunkSize" default:"8192"`
	FrameOptions       string `yaml:"frameOptions" default:"none"`
	DisableCompression bool   `yaml:"disableCompression"`
	EnableMetrics      bool   `yaml:"enableMetrics"`
}

func NewOptions(opts []Option) *Options {
	options := &Options{}
	tools.DoTagFunc(options, []func(reflect.StructField, reflect.Value){tools.SetDefaultValueIfNil})

	for _, opt := range opts {
		options = opt(options)
	}
	return options
}

// LoadOptions reads options from a yaml file and applies defaults.
func LoadOptions(filename string) (*Options, error) {
	options := &Options{}
	if err := tools.LoadConfig(filename, options); err != nil {
		return nil, err
	}
	return options, nil
}

func WithName(name string) Option {
	return func(opts *Options) *Options {
		opts.Name = name
		return opts
	}
}

func WithServerHeader(serverHeader string) Option {
	return func(opts *Options) *Options {
		opts.ServerHeader = serverHeader
		return opts
	}
}

func WithChunkSize(chunkSize int) Option {
	return func(opts *Options) *Options {
		opts.ChunkSize = chunkSize
		return opts
	}
}

func WithFrameOptions(frameOptions string) Option {
	return func(opts *Options) *Options {
		opts.FrameOptions = frameOptions
		return opts
	}
}

func WithDisableCompression(disable bool) Option {
	return func(opts *Options) *Options {
		opts.DisableCompression = disable
		return opts
	}
}

func WithEnableMetrics(enable bool) Option {
	return func(opts *Options) *Options {
		opts.EnableMetrics = enable
		return opts
	}
}
