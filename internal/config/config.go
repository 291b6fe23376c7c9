package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultJointNames is the solo quadruped model: the root joint followed by
// its twelve actuated joints.
var DefaultJointNames = []string{
	"universe",
	"lf_haa_joint", "lf_hfe_joint", "lf_kfe_joint",
	"lh_haa_joint", "lh_hfe_joint", "lh_kfe_joint",
	"rf_haa_joint", "rf_hfe_joint", "rf_kfe_joint",
	"rh_haa_joint", "rh_hfe_joint", "rh_kfe_joint",
}

// NodeConfig holds the node identity settings.
type NodeConfig struct {
	Name string `json:"name" mapstructure:"name"`
}

// RobotConfig describes the static robot model driven by the run command.
type RobotConfig struct {
	Name       string   `json:"name" mapstructure:"name"`
	JointNames []string `json:"jointNames" mapstructure:"jointNames"`
	NQ         int      `json:"nq" mapstructure:"nq"`
	NV         int      `json:"nv" mapstructure:"nv"`
}

// PublisherConfig holds topics, the visual frame and the publish rate.
type PublisherConfig struct {
	VisualFrame string  `json:"visualFrame" mapstructure:"visualFrame"`
	JointTopic  string  `json:"jointTopic" mapstructure:"jointTopic"`
	MarkerTopic string  `json:"markerTopic" mapstructure:"markerTopic"`
	ArrowTopic  string  `json:"arrowTopic" mapstructure:"arrowTopic"`
	OnlyVisual  bool    `json:"onlyVisual" mapstructure:"onlyVisual"`
	Rate        float64 `json:"rate" mapstructure:"rate"`
}

// Period returns the time between two publish cycles.
func (c PublisherConfig) Period() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.Rate)
}

// MemoryConfig holds in-memory transport settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// WebSocketConfig holds websocket transport settings
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// RedisConfig holds redis pub/sub transport settings
type RedisConfig struct {
	Address  string        `json:"address" mapstructure:"address"`
	Password string        `json:"password" mapstructure:"password"`
	DB       int           `json:"db" mapstructure:"db"`
	Prefix   string        `json:"prefix" mapstructure:"prefix"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// SQLiteConfig holds sqlite recorder settings. With Path set to ":memory:"
// the database is vacuumed to DumpPath on close, when DumpPath is set.
type SQLiteConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// PostgresConfig holds postgres recorder connection settings
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// DSN returns the postgres connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// TransportConfig selects and configures the message transport.
type TransportConfig struct {
	Type      string
	Codec     string
	Memory    MemoryConfig
	WebSocket WebSocketConfig
	Redis     RedisConfig
	SQLite    SQLiteConfig
	Postgres  PostgresConfig
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// GraylogConfig holds GELF log shipping settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// InfluxConfig holds frame statistics sink settings
type InfluxConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Protocol string
	Token    string
	Org      string
	Bucket   string
}

// URL returns the influx server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName("vispub.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers every default value without reading a file.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./vispublogs")

	viper.SetDefault("node.name", "sub_pub_node")

	viper.SetDefault("robot.name", "solo")
	viper.SetDefault("robot.jointNames", DefaultJointNames)
	viper.SetDefault("robot.nq", 0)
	viper.SetDefault("robot.nv", 0)

	viper.SetDefault("publisher.visualFrame", "world")
	viper.SetDefault("publisher.jointTopic", "/joint_states")
	viper.SetDefault("publisher.markerTopic", "/vis")
	viper.SetDefault("publisher.arrowTopic", "/arrow")
	viper.SetDefault("publisher.onlyVisual", false)
	viper.SetDefault("publisher.rate", 50.0)

	viper.SetDefault("transport.type", "memory")
	viper.SetDefault("transport.codec", "json")
	viper.SetDefault("transport.memory.outputDir", "./recordings")
	viper.SetDefault("transport.memory.compressOutput", true)
	viper.SetDefault("transport.websocket.url", "ws://localhost:5000/vis")
	viper.SetDefault("transport.websocket.secret", "")
	viper.SetDefault("transport.redis.address", "localhost:6379")
	viper.SetDefault("transport.redis.password", "")
	viper.SetDefault("transport.redis.db", 0)
	viper.SetDefault("transport.redis.prefix", "vispub:")
	viper.SetDefault("transport.redis.timeout", "5s")
	viper.SetDefault("transport.sqlite.path", "./vispub.db")
	viper.SetDefault("transport.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "vispub")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "vispub")
	viper.SetDefault("influx.bucket", "visual_frames")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "vispub")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetNodeConfig returns the node identity settings.
func GetNodeConfig() NodeConfig {
	return NodeConfig{
		Name: viper.GetString("node.name"),
	}
}

// GetRobotConfig returns the static robot model settings.
func GetRobotConfig() RobotConfig {
	return RobotConfig{
		Name:       viper.GetString("robot.name"),
		JointNames: viper.GetStringSlice("robot.jointNames"),
		NQ:         viper.GetInt("robot.nq"),
		NV:         viper.GetInt("robot.nv"),
	}
}

// GetPublisherConfig returns topics, frame and rate.
func GetPublisherConfig() PublisherConfig {
	return PublisherConfig{
		VisualFrame: viper.GetString("publisher.visualFrame"),
		JointTopic:  viper.GetString("publisher.jointTopic"),
		MarkerTopic: viper.GetString("publisher.markerTopic"),
		ArrowTopic:  viper.GetString("publisher.arrowTopic"),
		OnlyVisual:  viper.GetBool("publisher.onlyVisual"),
		Rate:        viper.GetFloat64("publisher.rate"),
	}
}

// GetTransportConfig returns the transport selection and its settings.
func GetTransportConfig() TransportConfig {
	return TransportConfig{
		Type:  viper.GetString("transport.type"),
		Codec: viper.GetString("transport.codec"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("transport.memory.outputDir"),
			CompressOutput: viper.GetBool("transport.memory.compressOutput"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("transport.websocket.url"),
			Secret: viper.GetString("transport.websocket.secret"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("transport.redis.address"),
			Password: viper.GetString("transport.redis.password"),
			DB:       viper.GetInt("transport.redis.db"),
			Prefix:   viper.GetString("transport.redis.prefix"),
			Timeout:  viper.GetDuration("transport.redis.timeout"),
		},
		SQLite: SQLiteConfig{
			Path:     viper.GetString("transport.sqlite.path"),
			DumpPath: viper.GetString("transport.sqlite.dumpPath"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetGraylogConfig returns the GELF shipping settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetInfluxConfig returns the frame statistics sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}
