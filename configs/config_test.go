package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"wineraise.dev/WineRaise/configs"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestGetConfig_GetsNamedFile() {
	logger := zaptest.NewLogger(suite.T())

	config, err := configs.GetConfig("testdata/config.toml", logger)

	suite.Require().NoError(err)
	suite.Equal("test.local", config.DB.Host)
	suite.Equal(1234, config.DB.Port)
	suite.Equal("testuser", config.DB.User)
	suite.Equal("test123", config.DB.Password)
	suite.Equal("testdb", config.DB.Database)
	suite.Equal(5, config.DB.MaxIdleConnections)
	suite.Equal(7, config.DB.MaxOpenConnections)
	suite.Equal(666, config.Server.Port)
	suite.Equal("secret", config.Auth.SecretKey)
	suite.Equal(30*time.Minute, config.Auth.AccessLifetime)
	suite.Equal(72*time.Hour, config.Auth.RefreshLifetime)
	suite.Equal([]string{"vivino_web"}, config.Integrations.Wine)
}

func (suite *ConfigTestSuite) TestGetConfig_GetsEnv() {
	logger := zaptest.NewLogger(suite.T())

	suite.T().Setenv("WINERAISE_DB_HOST", "test.local")
	suite.T().Setenv("WINERAISE_DB_PORT", "1234")
	suite.T().Setenv("WINERAISE_DB_USER", "testuser")
	suite.T().Setenv("WINERAISE_DB_PASSWORD", "test123")
	suite.T().Setenv("WINERAISE_DB_DATABASE", "testdb")
	suite.T().Setenv("WINERAISE_DB_MAXIDLECONNECTIONS", "5")
	suite.T().Setenv("WINERAISE_DB_MAXOPENCONNECTIONS", "7")
	suite.T().Setenv("WINERAISE_SERVER_PORT", "666")
	suite.T().Setenv("WINERAISE_AUTH_SECRETKEY", "secret")
	suite.T().Setenv("WINERAISE_INTEGRATIONS_WINE", "vivino_web")

	config, err := configs.GetConfig("", logger)

	suite.Require().NoError(err)
	suite.Equal("test.local", config.DB.Host)
	suite.Equal(1234, config.DB.Port)
	suite.Equal("testuser", config.DB.User)
	suite.Equal("test123", config.DB.Password)
	suite.Equal("testdb", config.DB.Database)
	suite.Equal(5, config.DB.MaxIdleConnections)
	suite.Equal(7, config.DB.MaxOpenConnections)
	suite.Equal(666, config.Server.Port)
	suite.Equal("secret", config.Auth.SecretKey)
	suite.Equal(time.Hour, config.Auth.AccessLifetime)
	suite.Equal(168*time.Hour, config.Auth.RefreshLifetime)
	suite.Equal([]string{"vivino_web"}, config.Integrations.Wine)
}

func (suite *ConfigTestSuite) TestGetConfig_EnvOverridesFile() {
	logger := zaptest.NewLogger(suite.T())

	suite.T().Setenv("WINERAISE_DB_HOST", "env.local")
	suite.T().Setenv("WINERAISE_DB_USER", "envuser")
	suite.T().Setenv("WINERAISE_DB_PASSWORD", "env123")
	suite.T().Setenv("WINERAISE_AUTH_SECRETKEY", "envsecret")
	suite.T().Setenv("WINERAISE_INTEGRATIONS_WINE", "envvivino_web")

	config, err := configs.GetConfig("testdata/config.toml", logger)

	suite.Require().NoError(err)
	suite.Equal("env.local", config.DB.Host)
	suite.Equal(1234, config.DB.Port)
	suite.Equal("envuser", config.DB.User)
	suite.Equal("env123", config.DB.Password)
	suite.Equal("testdb", config.DB.Database)
	suite.Equal(5, config.DB.MaxIdleConnections)
	suite.Equal(7, config.DB.MaxOpenConnections)
	suite.Equal(666, config.Server.Port)
	suite.Equal("envsecret", config.Auth.SecretKey)
	suite.Equal([]string{"envvivino_web"}, config.Integrations.Wine)
}

func (suite *ConfigTestSuite) TestGetConfig_MissingFileReturnsError() {
	logger := zaptest.NewLogger(suite.T())

	config, err := configs.GetConfig("testdata/missing.toml", logger)

	suite.Nil(config)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestGetConfig_MissingValues() {
	logger := zaptest.NewLogger(suite.T())

	config, err := configs.GetConfig("", logger)

	suite.Nil(config)
	suite.EqualError(err, "DB.Host: required validation failed, DB.Password: required validation failed, Auth.SecretKey: required validation failed")
}
