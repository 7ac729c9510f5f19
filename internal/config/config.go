package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string `yaml:"env" env:"APP_ENV" env-default:"local" validate:"oneof=local dev prod"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port   string `yaml:"port" env:"PORT" env-default:"8080" validate:"required,numeric"`
		ApiKey string `yaml:"key" env:"API_KEY" env-default:""`
	} `yaml:"listen"`
	WhatsApp struct {
		AccessToken   string `yaml:"access_token" env:"WHATSAPP_TOKEN" env-default:""`
		VerifyToken   string `yaml:"verify_token" env:"VERIFY_TOKEN" env-default:"" validate:"required"`
		AppSecret     string `yaml:"app_secret" env:"WHATSAPP_APP_SECRET" env-default:""`
		PhoneNumberID string `yaml:"phone_number_id" env:"PHONE_NUMBER_ID" env-default:""`
		GraphURL      string `yaml:"graph_url" env-default:"https://graph.facebook.com" validate:"url"`
		ApiVersion    string `yaml:"api_version" env-default:"v22.0"`
		OrderPhone    string `yaml:"order_phone" env:"ORDER_PHONE" env-default:"" validate:"required,numeric"`
	} `yaml:"whatsapp"`
	Instagram struct {
		BaseURL       string        `yaml:"base_url" env-default:"https://www.instagram.com" validate:"url"`
		UserAgent     string        `yaml:"user_agent" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
		AppID         string        `yaml:"app_id" env-default:"936619743392459"`
		Timeout       time.Duration `yaml:"timeout" env-default:"15s"`
		RatePerMinute int           `yaml:"rate_per_minute" env-default:"20" validate:"min=1"`
		MaxPosts      int           `yaml:"max_posts" env-default:"12" validate:"min=1,max=50"`
	} `yaml:"instagram"`
	Site struct {
		BaseURL     string `yaml:"base_url" env:"SITE_BASE_URL" env-default:"http://localhost:8080"`
		MaxProducts int    `yaml:"max_products" env-default:"12" validate:"min=1,max=50"`
		Currency    string `yaml:"currency" env-default:"₹"`
	} `yaml:"site"`
	Worker struct {
		Count      int           `yaml:"count" env-default:"4" validate:"min=1,max=64"`
		QueueSize  int           `yaml:"queue_size" env-default:"64" validate:"min=1"`
		JobTimeout time.Duration `yaml:"job_timeout" env-default:"2m"`
	} `yaml:"worker"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env-default:"instacatalog" validate:"required_if=Enabled true"`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool          `yaml:"enabled" env-default:"false"`
		Host     string        `yaml:"host" env-default:"127.0.0.1" validate:"required_if=Enabled true"`
		Port     string        `yaml:"port" env-default:"6379"`
		Password string        `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int           `yaml:"db" env-default:"0"`
		TTL      time.Duration `yaml:"ttl" env-default:"6h"`
	} `yaml:"redis"`
	Cloudinary struct {
		Enabled   bool   `yaml:"enabled" env-default:"false"`
		CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME" env-default:"" validate:"required_if=Enabled true"`
		ApiKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY" env-default:"" validate:"required_if=Enabled true"`
		ApiSecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET" env-default:"" validate:"required_if=Enabled true"`
		Folder    string `yaml:"folder" env-default:"instacatalog"`
	} `yaml:"cloudinary"`
	Vision struct {
		Enabled         bool   `yaml:"enabled" env-default:"false"`
		CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_APPLICATION_CREDENTIALS" env-default:""`
		ApiKey          string `yaml:"api_key" env:"GOOGLE_API_KEY" env-default:""`
		MaxLabels       int    `yaml:"max_labels" env-default:"5" validate:"min=1,max=20"`
	} `yaml:"vision"`
	OpenAI struct {
		ApiKey string `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
		Model  string `yaml:"model" env-default:"gpt-4o-mini"`
	} `yaml:"openai"`
	Telegram struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:"" validate:"required_if=Enabled true"`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"InstaCatalogBot"`
	} `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	once.Do(func() {
		conf, err := Load(path)
		if err != nil {
			log.Fatal(err)
		}
		instance = conf
	})
	return instance
}

// Load reads the YAML file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
