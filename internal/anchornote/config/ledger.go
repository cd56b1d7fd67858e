package config

import "time"

// LedgerConfig содержит настройки подключения к узлу реестра.
type LedgerConfig struct {
	Endpoint       string        `yaml:"endpoint" env:"ANCHORNOTE_LEDGER_ENDPOINT" env-default:"http://127.0.0.1:8545"`
	ChainID        uint64        `yaml:"chain_id" env:"ANCHORNOTE_LEDGER_CHAIN_ID" env-default:"1337"`
	GasLimit       uint64        `yaml:"gas_limit" env:"ANCHORNOTE_LEDGER_GAS_LIMIT" env-default:"50000"`
	GasPriceGwei   uint64        `yaml:"gas_price_gwei" env:"ANCHORNOTE_LEDGER_GAS_PRICE_GWEI" env-default:"20"`
	DialTimeout    time.Duration `yaml:"dial_timeout" env:"ANCHORNOTE_LEDGER_DIAL_TIMEOUT" env-default:"5s"`
	SubmitTimeout  time.Duration `yaml:"submit_timeout" env:"ANCHORNOTE_LEDGER_SUBMIT_TIMEOUT" env-default:"30s"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" env:"ANCHORNOTE_LEDGER_FETCH_TIMEOUT" env-default:"10s"`
	ConfirmPolling time.Duration `yaml:"confirm_polling" env:"ANCHORNOTE_LEDGER_CONFIRM_POLLING" env-default:"500ms"`
}
