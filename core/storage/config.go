package storage

// Config holds configuration for the object storage whose listing is tracked.
type Config struct {
	// Endpoint is the host (and optional port) of the S3-compatible service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey and SecretKey are static V4 credentials.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey pairs with AccessKey.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL switches the client to https.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the bucket whose objects are reconciled. Empty disables the assets source.
	Bucket string `mapstructure:"bucket" default:""`
	// Region of the bucket (e.g., us-east-1). Empty lets the client discover it.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
