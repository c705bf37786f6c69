package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/gitseeker/pkg/cache"
	errs "github.com/matzehuels/gitseeker/pkg/errors"
	"github.com/matzehuels/gitseeker/pkg/prefs"
)

// Configuration keys. Each maps to GITSEEKER_<KEY> with dots replaced by
// underscores, e.g. GITSEEKER_CACHE_BACKEND.
const (
	keySources       = "search.sources"
	keyDeep          = "search.deep"
	keyLimit         = "search.limit"
	keyCacheBackend  = "cache.backend"
	keyCacheTTL      = "cache.ttl"
	keyRedisURL      = "cache.redis_url"
	keyPrefsBackend  = "prefs.backend"
	keyPrefsPath     = "prefs.path"
	keyMongoURI      = "prefs.mongo_uri"
	keyMongoDatabase = "prefs.mongo_database"
	keyServerAddr    = "server.addr"
	keyGitHubToken   = "github.token"
	keyGitLabToken   = "gitlab.token"
	keyHFToken       = "huggingface.token"

	// keyRegistries maps source names to endpoint overrides, e.g. a
	// self-hosted GitLab API or an npm mirror.
	keyRegistries = "registries"
)

// Cache backends selectable through cache.backend.
const (
	cacheFile   = "file"
	cacheMemory = "memory"
	cacheRedis  = "redis"
	cacheNone   = "none"
)

// settings is the resolved configuration for one invocation.
type settings struct {
	Sources []string
	Deep    bool
	Limit   int

	CacheBackend string
	CacheTTL     time.Duration
	RedisURL     string

	PrefsBackend  string
	PrefsPath     string
	MongoURI      string
	MongoDatabase string

	ServerAddr string

	GitHubToken      string
	GitLabToken      string
	HuggingFaceToken string

	Registries map[string]string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keySources, []string{"github", "huggingface", "gitlab", "npm"})
	v.SetDefault(keyDeep, true)
	v.SetDefault(keyLimit, 20)
	v.SetDefault(keyCacheBackend, cacheFile)
	v.SetDefault(keyCacheTTL, cache.TTLSearch)
	v.SetDefault(keyRedisURL, "redis://localhost:6379/0")
	v.SetDefault(keyPrefsBackend, prefs.BackendFile)
	v.SetDefault(keyMongoDatabase, prefs.DefaultDatabase)
	v.SetDefault(keyServerAddr, ":8080")
}

// loadConfig layers defaults, the config file and the environment into c.v.
// A missing default config file is fine; a missing --config file is not.
func (c *CLI) loadConfig() error {
	v := c.v
	setDefaults(v)

	v.SetEnvPrefix("GITSEEKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyGitHubToken, "GITSEEKER_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv(keyGitLabToken, "GITSEEKER_GITLAB_TOKEN", "GITLAB_TOKEN")
	_ = v.BindEnv(keyHFToken, "GITSEEKER_HUGGINGFACE_TOKEN", "HF_TOKEN")

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "read config %s", c.cfgFile)
		}
		c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
		return nil
	}

	dir, err := configDir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeConfig, err, "read config")
	}
	c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	return nil
}

func (c *CLI) settings() settings {
	v := c.v
	return settings{
		Sources:          v.GetStringSlice(keySources),
		Deep:             v.GetBool(keyDeep),
		Limit:            v.GetInt(keyLimit),
		CacheBackend:     strings.ToLower(v.GetString(keyCacheBackend)),
		CacheTTL:         v.GetDuration(keyCacheTTL),
		RedisURL:         v.GetString(keyRedisURL),
		PrefsBackend:     strings.ToLower(v.GetString(keyPrefsBackend)),
		PrefsPath:        v.GetString(keyPrefsPath),
		MongoURI:         v.GetString(keyMongoURI),
		MongoDatabase:    v.GetString(keyMongoDatabase),
		ServerAddr:       v.GetString(keyServerAddr),
		GitHubToken:      v.GetString(keyGitHubToken),
		GitLabToken:      v.GetString(keyGitLabToken),
		HuggingFaceToken: v.GetString(keyHFToken),
		Registries:       v.GetStringMapString(keyRegistries),
	}
}

// newCache opens the cache backend named by backend.
func newCache(ctx context.Context, backend, redisURL string) (cache.Cache, error) {
	switch backend {
	case cacheFile, "":
		dir, err := cacheDir()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeConfig, err, "get cache dir")
		}
		return cache.NewFileCache(dir)
	case cacheMemory:
		return cache.NewMemoryCache(memoryCacheEntries)
	case cacheRedis:
		return cache.NewRedisCache(ctx, redisURL, appName+":")
	case cacheNone:
		return cache.NewNullCache(), nil
	}
	return nil, errs.New(errs.ErrCodeConfig, "unknown cache backend %q (use file, memory, redis or none)", backend)
}

// cacheDir returns the HTTP cache directory, honoring XDG_CACHE_HOME.
func cacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the directory holding config.yaml.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, appName), nil
}
