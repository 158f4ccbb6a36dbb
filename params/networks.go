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
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/params/networkname"
)

// Default energy costs charged before any execution takes place.
const (
	TxEnergy                 uint64 = 21000
	TxEnergyContractCreation uint64 = 32000
	TxDataZeroEnergy         uint64 = 4
	TxDataNonZeroEnergy      uint64 = 16
)

// EnergyCosts are the intrinsic energy parameters of a network.
type EnergyCosts struct {
	TxBase        uint64 `yaml:"txBase" toml:"txBase" json:"txBase"`
	TxCreate      uint64 `yaml:"txCreate" toml:"txCreate" json:"txCreate"`
	TxDataZero    uint64 `yaml:"txDataZero" toml:"txDataZero" json:"txDataZero"`
	TxDataNonzero uint64 `yaml:"txDataNonzero" toml:"txDataNonzero" json:"txDataNonzero"`
}

func DefaultEnergyCosts() EnergyCosts {
	return EnergyCosts{
		TxBase:        TxEnergy,
		TxCreate:      TxEnergyContractCreation,
		TxDataZero:    TxDataZeroEnergy,
		TxDataNonzero: TxDataNonZeroEnergy,
	}
}

// IntrinsicEnergy is the energy a transaction pays before execution: the base
// cost, the creation surcharge when to is nil, and a per-byte data charge.
func (c EnergyCosts) IntrinsicEnergy(to *common.Address, data []byte) uint64 {
	energy := c.TxBase
	if to == nil {
		energy += c.TxCreate
	}
	for _, b := range data {
		if b == 0 {
			energy += c.TxDataZero
		} else {
			energy += c.TxDataNonzero
		}
	}
	return energy
}

// Network identifies a chain by name and numeric id.
type Network struct {
	Name     string      `yaml:"name" toml:"name" json:"name"`
	ID       uint64      `yaml:"networkId" toml:"networkId" json:"networkId"`
	AltNames []string    `yaml:"altNames,omitempty" toml:"altNames,omitempty" json:"altNames,omitempty"`
	Costs    EnergyCosts `yaml:"energyCosts" toml:"energyCosts" json:"energyCosts"`
}

// Prefix is the address prefix used on this network.
func (n Network) Prefix() (string, error) {
	return common.PrefixForNetworkID(n.ID)
}

// Matches reports whether nameOrID is this network's id or one of its names.
func (n Network) Matches(nameOrID string) bool {
	if id, err := strconv.ParseUint(nameOrID, 10, 64); err == nil {
		return id == n.ID
	}
	return nameOrID == n.Name || slices.Contains(n.AltNames, nameOrID)
}

func (n Network) String() string {
	return fmt.Sprintf("%s(%d)", n.Name, n.ID)
}

// Registry maps network names and ids to networks. The zero value is not
// usable; build one with NewRegistry or NewDefaultRegistry.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Network
	byID   map[uint64]Network
}

func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]Network{},
		byID:   map[uint64]Network{},
	}
}

// NewDefaultRegistry returns a registry holding the well-known networks.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, n := range defaultNetworks() {
		if err := r.Register(n); err != nil {
			panic(err)
		}
	}
	return r
}

func defaultNetworks() []Network {
	mk := func(name string, id uint64, alt ...string) Network {
		return Network{Name: name, ID: id, AltNames: alt, Costs: DefaultEnergyCosts()}
	}
	return []Network{
		mk(networkname.MainnetNetworkName, 1, "homestead"),
		mk(networkname.RopstenNetworkName, 3),
		mk(networkname.RinkebyNetworkName, 4),
		mk(networkname.GoerliNetworkName, 5),
		mk(networkname.KovanNetworkName, 42),
		mk(networkname.SepoliaNetworkName, 11155111),
		mk(networkname.ClassicNetworkName, 61),
		mk(networkname.ClassicKottiNetworkName, 6),
		mk(networkname.XDaiNetworkName, 100),
		mk(networkname.OptimismNetworkName, 10),
		mk(networkname.OptimismGoerliNetworkName, 420),
		mk(networkname.ArbitrumNetworkName, 42161),
		mk(networkname.ArbitrumGoerliNetworkName, 421613),
		mk(networkname.MaticMumbaiNetworkName, 80001, "maticMumbai", "maticmum"),
		mk(networkname.BnbNetworkName, 56),
		mk(networkname.BnbTestnetNetworkName, 97),
	}
}

// Register adds n under its id, name and alternate names. Any key already
// taken by another network is a conflict and nothing is registered.
func (r *Registry) Register(n Network) error {
	if n.Name == "" {
		return fmt.Errorf("%w: network without a name", common.ErrInvalidArgument)
	}
	if n.Costs == (EnergyCosts{}) {
		n.Costs = DefaultEnergyCosts()
	}
	n.AltNames = slices.Clone(n.AltNames)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[n.ID]; ok {
		return fmt.Errorf("%w: conflicting network for id %d: %s", common.ErrInvalidArgument, n.ID, existing.Name)
	}
	names := append([]string{n.Name}, n.AltNames...)
	for _, name := range names {
		if existing, ok := r.byName[name]; ok {
			return fmt.Errorf("%w: conflicting network for %q: %s", common.ErrInvalidArgument, name, existing.Name)
		}
	}
	r.byID[n.ID] = n
	for _, name := range names {
		r.byName[name] = n
	}
	return nil
}

// Lookup resolves a network by name or decimal id. An unregistered id
// resolves to a network named "unknown"; an unregistered name is an error.
func (r *Registry) Lookup(nameOrID string) (Network, error) {
	if id, err := strconv.ParseUint(nameOrID, 10, 64); err == nil {
		return r.LookupID(id), nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byName[nameOrID]
	if !ok {
		return Network{}, fmt.Errorf("%w: unknown network %q", common.ErrInvalidArgument, nameOrID)
	}
	return n, nil
}

func (r *Registry) LookupID(id uint64) Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.byID[id]; ok {
		return n
	}
	return Network{Name: networkname.UnknownNetworkName, ID: id, Costs: DefaultEnergyCosts()}
}

// All lists the registered networks ordered by id.
func (r *Registry) All() []Network {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Network, 0, len(r.byID))
	for _, n := range r.byID {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b Network) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
