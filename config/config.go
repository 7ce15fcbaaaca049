package config

type MySQLConfig struct {
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	AutoMigrate bool   `yaml:"autoMigrate" mapstructure:"autoMigrate"`
}

func (MySQLConfig) Key() string {
	return "mysql"
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

func (RedisConfig) Key() string {
	return "redis"
}

type KafkaConfig struct {
	Addrs   []string `yaml:"addrs" mapstructure:"addrs"`
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
}

func (KafkaConfig) Key() string {
	return "kafka"
}

type MinIOConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	UseSSL   bool   `yaml:"useSSL" mapstructure:"useSSL"`
}

func (MinIOConfig) Key() string {
	return "minio"
}

type SubmissionMinIOConfig struct {
	Bucket                  string `yaml:"bucket" mapstructure:"bucket"`
	DownloadDurationSeconds int    `yaml:"downloadDurationSeconds" mapstructure:"downloadDurationSeconds"`
}

func (SubmissionMinIOConfig) Key() string {
	return "submissionMinio"
}

type JWTConfig struct {
	JWTKey                   string `yaml:"jwtKey" mapstructure:"jwtKey"`
	RefreshKey               string `yaml:"refreshKey" mapstructure:"refreshKey"`
	JWTExpirationMinutes     int    `yaml:"jwtExpirationMinutes" mapstructure:"jwtExpirationMinutes"`
	RefreshExpirationMinutes int    `yaml:"refreshExpirationMinutes" mapstructure:"refreshExpirationMinutes"`
}

func (JWTConfig) Key() string {
	return "jwt"
}

type AdminConfig struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

func (AdminConfig) Key() string {
	return "admin"
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug / info / warn / error
	Format string `yaml:"format" mapstructure:"format"` // json / console
}

func (LogConfig) Key() string {
	return "log"
}

type GinConfig struct {
	Addr             string   `yaml:"addr" mapstructure:"addr"`
	AllowOrigins     []string `yaml:"allowOrigins" mapstructure:"allowOrigins"`
	AllowMethods     []string `yaml:"allowMethods" mapstructure:"allowMethods"`
	AllowHeaders     []string `yaml:"allowHeaders" mapstructure:"allowHeaders"`
	ExposeHeaders    []string `yaml:"exposeHeaders" mapstructure:"exposeHeaders"`
	AllowCredentials bool     `yaml:"allowCredentials" mapstructure:"allowCredentials"`
	MaxAge           int      `yaml:"maxAge" mapstructure:"maxAge"` // 单位: 秒
	LoginIgnorePaths []string `yaml:"loginIgnorePaths" mapstructure:"loginIgnorePaths"`
}

func (GinConfig) Key() string {
	return "gin"
}

type BotConfig struct {
	PollIntervalSeconds int `yaml:"pollIntervalSeconds" mapstructure:"pollIntervalSeconds"`
	SubmitDelaySeconds  int `yaml:"submitDelaySeconds" mapstructure:"submitDelaySeconds"`
	StatusPageSize      int `yaml:"statusPageSize" mapstructure:"statusPageSize"`
	PollRetryCount      int `yaml:"pollRetryCount" mapstructure:"pollRetryCount"`
}

func (BotConfig) Key() string {
	return "bot"
}

type ManagerConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds" mapstructure:"intervalSeconds"`
}

func (ManagerConfig) Key() string {
	return "manager"
}

type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

func (MetricsConfig) Key() string {
	return "metrics"
}
