package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvSlotsDriver = "STOREFRONT_SLOTS_DRIVER"
	EnvSlotsDSN    = "STOREFRONT_SLOTS_DSN"
)
