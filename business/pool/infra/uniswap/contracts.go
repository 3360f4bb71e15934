package uniswap

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PoolABI covers the immutable getters and the live state reads of a Uniswap V3 pool.
const PoolABI = `[
	{"inputs": [], "name": "token0", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "token1", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "fee", "outputs": [{"internalType": "uint24", "name": "", "type": "uint24"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "tickSpacing", "outputs": [{"internalType": "int24", "name": "", "type": "int24"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "liquidity", "outputs": [{"internalType": "uint128", "name": "", "type": "uint128"}], "stateMutability": "view", "type": "function"},
	{
		"inputs": [],
		"name": "slot0",
		"outputs": [
			{"internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
			{"internalType": "int24", "name": "tick", "type": "int24"},
			{"internalType": "uint16", "name": "observationIndex", "type": "uint16"},
			{"internalType": "uint16", "name": "observationCardinality", "type": "uint16"},
			{"internalType": "uint16", "name": "observationCardinalityNext", "type": "uint16"},
			{"internalType": "uint8", "name": "feeProtocol", "type": "uint8"},
			{"internalType": "bool", "name": "unlocked", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ERC20StringABI is the standard metadata ABI.
const ERC20StringABI = `[
	{"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`

// ERC20Bytes32ABI matches legacy tokens (e.g. MKR) that return bytes32 metadata.
const ERC20Bytes32ABI = `[
	{"inputs": [], "name": "symbol", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"},
	{"inputs": [], "name": "name", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"}
]`

var (
	abiOnce     sync.Once
	abiErr      error
	poolABI     abi.ABI
	erc20ABI    abi.ABI
	erc20B32ABI abi.ABI
)

// parsedABIs parses the contract ABIs once per process.
func parsedABIs() (pool, erc20, erc20Bytes32 abi.ABI, err error) {
	abiOnce.Do(func() {
		if poolABI, abiErr = abi.JSON(strings.NewReader(PoolABI)); abiErr != nil {
			return
		}
		if erc20ABI, abiErr = abi.JSON(strings.NewReader(ERC20StringABI)); abiErr != nil {
			return
		}
		erc20B32ABI, abiErr = abi.JSON(strings.NewReader(ERC20Bytes32ABI))
	})
	return poolABI, erc20ABI, erc20B32ABI, abiErr
}
