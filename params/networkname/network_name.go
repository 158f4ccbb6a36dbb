package networkname

const (
	MainnetNetworkName        = "mainnet"
	RopstenNetworkName        = "ropsten"
	RinkebyNetworkName        = "rinkeby"
	GoerliNetworkName         = "goerli"
	KovanNetworkName          = "kovan"
	SepoliaNetworkName        = "sepolia"
	ClassicNetworkName        = "classic"
	ClassicKottiNetworkName   = "classicKotti"
	XDaiNetworkName           = "xdai"
	OptimismNetworkName       = "optimism"
	OptimismGoerliNetworkName = "optimism-goerli"
	ArbitrumNetworkName       = "arbitrum"
	ArbitrumGoerliNetworkName = "arbitrum-goerli"
	MaticMumbaiNetworkName    = "matic-mumbai"
	BnbNetworkName            = "bnb"
	BnbTestnetNetworkName     = "bnbt"

	// UnknownNetworkName names a network looked up by an id nobody registered.
	UnknownNetworkName = "unknown"
)

var All = []string{
	MainnetNetworkName,
	RopstenNetworkName,
	RinkebyNetworkName,
	GoerliNetworkName,
	KovanNetworkName,
	SepoliaNetworkName,
	ClassicNetworkName,
	ClassicKottiNetworkName,
	XDaiNetworkName,
	OptimismNetworkName,
	OptimismGoerliNetworkName,
	ArbitrumNetworkName,
	ArbitrumGoerliNetworkName,
	MaticMumbaiNetworkName,
	BnbNetworkName,
	BnbTestnetNetworkName,
}
