package config

import (
	"log"
	"os"
	"strconv"

	"github.com/goalzilla/goalzilla/src/core/network"
	"github.com/goalzilla/goalzilla/src/evm"
)

type Config struct {
	MySQLDSN     string
	RedisURL     string
	JWTSecret    string
	Port         string
	PollInterval int

	// Ledger surface, fixed at startup.
	ContractAddress string
	ProviderURL     string
	Network         network.Descriptor

	// Optional Discord announcements.
	DiscordToken     string
	DiscordChannelID string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getseconds(key, def string) int {
	v := getenv(key, def)
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("env %s must be a positive number of seconds, got %q", key, v)
	}
	return n
}

func Load() Config {
	return Config{
		MySQLDSN:     getenv("MYSQL_DSN", "goalzilla:goalzilla@tcp(127.0.0.1:3306)/goalzilla"),
		RedisURL:     getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:    getenv("JWT_SECRET", ""),
		Port:         getenv("PORT", "8080"),
		PollInterval: getseconds("POLL_INTERVAL", "60"),

		ContractAddress: getenv("CONTRACT_ADDRESS", "0x658f17BC6Dcfc19BBc4A76B260a8Dab56A413799"),
		ProviderURL:     getenv("PROVIDER_URL", "wss://volta-rpc.energyweb.org/ws"),
		Network: network.Descriptor{
			ChainIDHex:       getenv("CHAIN_ID_HEX", "0x12047"),
			Name:             getenv("CHAIN_NAME", "Energy Web Volta Testnet"),
			RPCURL:           getenv("CHAIN_RPC_URL", "https://volta-rpc.energyweb.org"),
			BlockExplorerURL: getenv("BLOCK_EXPLORER_URL", "https://volta-explorer.energyweb.org"),
			NativeCurrency: evm.NativeCurrency{
				Name:     getenv("CHAIN_NAME", "Energy Web Volta Testnet"),
				Symbol:   getenv("CURRENCY_SYMBOL", "VT"),
				Decimals: 18,
			},
		},

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
	}
}
