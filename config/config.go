package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string
	DBUrl         string
	DraftDBPath   string
	StaticDir     string
	TokenSecret   string
	TokenTTL      time.Duration
	MaxUpload     int64
	AdminUser     string
	AdminPassword string
	Debug         bool
}

// file mirrors the flags; a value set here applies unless the flag was
// given on the command line.
type file struct {
	Host          *string `yaml:"host"`
	Port          *uint   `yaml:"port"`
	DBUrl         *string `yaml:"db-url"`
	DraftDB       *string `yaml:"draft-db"`
	StaticDir     *string `yaml:"static-dir"`
	TokenSecret   *string `yaml:"token-secret"`
	TokenTTL      *uint   `yaml:"token-ttl"`
	MaxUploadMB   *uint   `yaml:"max-upload-mb"`
	AdminUser     *string `yaml:"admin-user"`
	AdminPassword *string `yaml:"admin-password"`
	Debug         *bool   `yaml:"debug"`
}

func ParseFlags() (Config, error) {
	return Parse(os.Args[1:])
}

func Parse(args []string) (cfg Config, err error) {
	fs := flag.NewFlagSet("quick-forms", flag.ContinueOnError)

	configPath := fs.String("config", "", "optional YAML file with the same keys as the flags")
	host := fs.String("host", "0.0.0.0", "listen host name")
	port := fs.Uint("port", 80, "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", "qforms.sqlite", "path to SQLite3 DB file")
	fs.StringVar(&cfg.DraftDBPath, "draft-db", "qforms-drafts.db", "path to the draft store file")
	fs.StringVar(&cfg.StaticDir, "static-dir", "public", "directory of static files served at /")
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	ttl := fs.Uint("token-ttl", 120, "token TTL in seconds")
	maxUpload := fs.Uint("max-upload-mb", 10, "maximum size of a submission, in MB")
	fs.StringVar(&cfg.AdminUser, "admin-user", "", "create or update this author on startup")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "password for -admin-user")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")

	if err = fs.Parse(args); err != nil {
		return
	}

	if *configPath != "" {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		var f file
		f, err = readFile(*configPath)
		if err != nil {
			return
		}
		apply(set, "host", f.Host, host)
		apply(set, "port", f.Port, port)
		apply(set, "db-url", f.DBUrl, &cfg.DBUrl)
		apply(set, "draft-db", f.DraftDB, &cfg.DraftDBPath)
		apply(set, "static-dir", f.StaticDir, &cfg.StaticDir)
		apply(set, "token-secret", f.TokenSecret, &cfg.TokenSecret)
		apply(set, "token-ttl", f.TokenTTL, ttl)
		apply(set, "max-upload-mb", f.MaxUploadMB, maxUpload)
		apply(set, "admin-user", f.AdminUser, &cfg.AdminUser)
		apply(set, "admin-password", f.AdminPassword, &cfg.AdminPassword)
		apply(set, "debug", f.Debug, &cfg.Debug)
	}

	cfg.Addr = net.JoinHostPort(*host, strconv.Itoa(int(*port)))
	cfg.TokenTTL = time.Duration(*ttl) * time.Second
	cfg.MaxUpload = int64(*maxUpload) << 20

	switch {
	case cfg.TokenSecret == "":
		err = errors.New("missing parameter -token-secret")
	case cfg.AdminUser != "" && cfg.AdminPassword == "":
		err = errors.New("-admin-user needs -admin-password")
	}
	return
}

func readFile(path string) (f file, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config.read: %w", err)
	}
	if err = yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("config.parse %s: %w", path, err)
	}
	return f, nil
}

func apply[T any](set map[string]bool, name string, from *T, to *T) {
	if from != nil && !set[name] {
		*to = *from
	}
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
