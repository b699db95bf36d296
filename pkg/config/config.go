package config

import (
	"github.com/shopspring/decimal"
)

type Redis struct {
	URL string `envconfig:"URL"`
}

type NATS struct {
	URL string `envconfig:"URL"`
}

type Kafka struct {
	Brokers string `envconfig:"BROKERS"`
}

// PaymentGateway holds the credentials forwarded with every charge task.
type PaymentGateway struct {
	SecretKey string `envconfig:"SECRET_KEY"`
}

// Ledger describes the token contract the sale transfers from.
type Ledger struct {
	ContractAddress string `envconfig:"CONTRACT_ADDRESS" default:"0xd14A3D6b94016e455af5eB7F329bc572EA626c5F"`
	PrivateKey      string `envconfig:"PRIVATE_KEY"`
	GasLimit        uint64 `envconfig:"GAS_LIMIT" default:"100000"`
	Decimals        int32  `envconfig:"DECIMALS" default:"18"`
}

// Email configures the receipt sent after a confirmed transfer.
type Email struct {
	ApiKey      string `envconfig:"API_KEY"`
	From        string `envconfig:"FROM" default:"no-reply@tokensale.dev"`
	Subject     string `envconfig:"SUBJECT" default:"Your tokens just arrived"`
	ExplorerURL string `envconfig:"EXPLORER_URL" default:"https://ropsten.etherscan.io/tx/"`
}

// Sale holds the fixed pricing of the token sale.
type Sale struct {
	UnitPriceUSD decimal.Decimal `envconfig:"UNIT_PRICE_USD" default:"0.4"`
	Currency     string          `envconfig:"CURRENCY" default:"usd"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[tokensale]"`
}

type App struct {
	Env            string          `envconfig:"APP_ENV" default:"development"`
	Log            *Log            `envconfig:"LOG"`
	Redis          *Redis          `envconfig:"REDIS"`
	NATS           *NATS           `envconfig:"NATS"`
	Kafka          *Kafka          `envconfig:"KAFKA"`
	PaymentGateway *PaymentGateway `envconfig:"PAYMENT_GATEWAY"`
	Ledger         *Ledger         `envconfig:"LEDGER"`
	Email          *Email          `envconfig:"EMAIL"`
	Sale           *Sale           `envconfig:"SALE"`
}
