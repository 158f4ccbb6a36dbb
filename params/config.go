// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mhsnprvr/corebc-tes/common"
)

// registryFile is the on-disk form of extra networks:
//
//	networks:
//	  - name: devin
//	    networkId: 3
//	    altNames: [core-devin]
type registryFile struct {
	Networks []Network `yaml:"networks" toml:"networks"`
}

// LoadRegistryFile registers the networks listed in a .yaml, .yml or .toml
// file. Registration stops at the first conflict.
func LoadRegistryFile(r *Registry, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var cfg registryFile
	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("%w: %s: %w", common.ErrBadData, filePath, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("%w: %s: %w", common.ErrBadData, filePath, err)
		}
	default:
		return fmt.Errorf("%w: %w", common.ErrUnsupported, errors.New("config files only accepted are .yaml and .toml"))
	}
	for _, n := range cfg.Networks {
		if err := r.Register(n); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
	}
	return nil
}
