package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	CMSBaseURL       string
	WMSBaseURL       string
	ROSBaseURL       string
	BackofficeAPIKey string

	GeocoderBaseURL string
	GeocoderAPIKey  string

	RabbitURL string

	// RedisAddr switches the location cache to Redis when set; empty
	// keeps the in-process store.
	RedisAddr string

	// IntegrationTimeoutSeconds bounds every back-office call inside the
	// saga, forward and compensating.
	IntegrationTimeoutSeconds int

	// The warehouse. Routes start here for drivers that have never
	// reported a position.
	DepotAddress   string
	DepotLatitude  float64
	DepotLongitude float64
}
