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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhsnprvr/corebc-tes/common"
	"github.com/mhsnprvr/corebc-tes/params/networkname"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	require.Len(t, r.All(), len(networkname.All))

	mainnet, err := r.Lookup("mainnet")
	require.NoError(t, err)
	require.Equal(t, uint64(1), mainnet.ID)

	byAlt, err := r.Lookup("homestead")
	require.NoError(t, err)
	require.Equal(t, mainnet.Name, byAlt.Name)

	byID, err := r.Lookup("80001")
	require.NoError(t, err)
	require.Equal(t, networkname.MaticMumbaiNetworkName, byID.Name)
	require.True(t, byID.Matches("maticmum"))
	require.True(t, byID.Matches("80001"))
	require.False(t, byID.Matches("mainnet"))

	unknown, err := r.Lookup("1337")
	require.NoError(t, err)
	require.Equal(t, networkname.UnknownNetworkName, unknown.Name)
	require.Equal(t, uint64(1337), unknown.ID)

	_, err = r.Lookup("nowhere")
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	all := r.All()
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestRegisterConflicts(t *testing.T) {
	r := NewDefaultRegistry()
	require.ErrorIs(t, r.Register(Network{Name: "other", ID: 1}), common.ErrInvalidArgument)
	require.ErrorIs(t, r.Register(Network{Name: "mainnet", ID: 7777}), common.ErrInvalidArgument)
	require.ErrorIs(t, r.Register(Network{Name: "x", ID: 7777, AltNames: []string{"homestead"}}), common.ErrInvalidArgument)
	require.ErrorIs(t, r.Register(Network{ID: 7778}), common.ErrInvalidArgument)

	// failed registrations leave nothing behind
	_, err := r.Lookup("x")
	require.Error(t, err)
	require.Equal(t, networkname.UnknownNetworkName, r.LookupID(7777).Name)

	require.NoError(t, r.Register(Network{Name: "devin", ID: 7777}))
	devin, err := r.Lookup("devin")
	require.NoError(t, err)
	require.Equal(t, DefaultEnergyCosts(), devin.Costs)
}

func TestNetworkPrefix(t *testing.T) {
	r := NewDefaultRegistry()
	tests := []struct {
		name   string
		prefix string
		err    error
	}{
		{"mainnet", common.PrefixMainnet, nil},
		{"ropsten", common.PrefixTestnet, nil},
		{"rinkeby", common.PrefixTestnet, nil},
		{"kovan", common.PrefixPrivate, nil},
		{"goerli", "", common.ErrUnsupported},
		{"optimism", "", common.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := r.Lookup(tt.name)
			require.NoError(t, err)
			prefix, err := n.Prefix()
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestIntrinsicEnergy(t *testing.T) {
	costs := DefaultEnergyCosts()
	to := common.MustParseAddress("0xcb648ba1f109551bd432803012645ac136ddd64dba72")
	require.Equal(t, uint64(21000), costs.IntrinsicEnergy(&to, nil))
	require.Equal(t, uint64(21000+32000), costs.IntrinsicEnergy(nil, nil))
	require.Equal(t, uint64(21000+4+16+16), costs.IntrinsicEnergy(&to, []byte{0x00, 0xde, 0xad}))
}

func TestLoadRegistryFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "networks.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
networks:
  - name: devin
    networkId: 7777
    altNames: [core-devin]
    energyCosts:
      txBase: 1000
      txCreate: 2000
      txDataZero: 1
      txDataNonzero: 2
`), 0o600))
	tomlPath := filepath.Join(dir, "networks.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[networks]]
name = "koliba"
networkId = 8888
`), 0o600))

	r := NewDefaultRegistry()
	require.NoError(t, LoadRegistryFile(r, yamlPath))
	require.NoError(t, LoadRegistryFile(r, tomlPath))

	devin, err := r.Lookup("core-devin")
	require.NoError(t, err)
	require.Equal(t, uint64(7777), devin.ID)
	require.Equal(t, uint64(1000), devin.Costs.TxBase)

	koliba, err := r.Lookup("8888")
	require.NoError(t, err)
	require.Equal(t, "koliba", koliba.Name)
	require.Equal(t, DefaultEnergyCosts(), koliba.Costs)

	// loading the same file twice conflicts
	require.ErrorIs(t, LoadRegistryFile(r, yamlPath), common.ErrInvalidArgument)

	jsonPath := filepath.Join(dir, "networks.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0o600))
	require.ErrorIs(t, LoadRegistryFile(r, jsonPath), common.ErrUnsupported)

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("networks: {"), 0o600))
	require.ErrorIs(t, LoadRegistryFile(r, badPath), common.ErrBadData)
}

func TestVersionWithCommit(t *testing.T) {
	require.Equal(t, VersionWithMeta, VersionWithCommit("abc"))
	require.Equal(t, VersionWithMeta+"-0123abcd", VersionWithCommit("0123abcdef"))
}
