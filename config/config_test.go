package config

import (
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestLoadConfigWithDefault__Without_Config_File(t *testing.T) {
	vip := viper.New()
	vip.SetConfigName("config")
	vip.AddConfigPath(t.TempDir())

	conf := loadConfigWithDefault(vip)

	assert.Equal(t, uint16(5090), conf.Server.GRPC.Port)
	assert.Equal(t, ":5080", conf.Server.HTTP.ListenString())
	assert.Equal(t, "localhost:5090", conf.Server.GRPC.String())

	assert.Equal(t, 3*time.Second, conf.Reservation.LockTimeout)
	assert.Equal(t, 10*time.Second, conf.Reservation.LockTTL)
	assert.Equal(t, 5*time.Millisecond, conf.Reservation.LockRetryMin)
	assert.Equal(t, 100*time.Millisecond, conf.Reservation.LockRetryMax)
	assert.Equal(t, 2, conf.Reservation.FundCacheTTLSeconds)

	assert.Equal(t, false, conf.Memcache.Enabled)
	assert.Equal(t, "localhost:11211", conf.Memcache.Addr())
	assert.Equal(t, "@every 30s", conf.Worker.FundGaugeCron)
}

func TestMySQLConfig__DSN(t *testing.T) {
	conf := MySQLConfig{
		Host:     "localhost",
		Port:     3306,
		Database: "offer_reserve",
		Username: "root",
		Password: "1",
		Options: []MySQLOption{
			{Key: "parseTime", Value: "true"},
			{Key: "loc", Value: "Asia/Ho_Chi_Minh"},
		},
	}

	assert.Equal(t,
		"root:1@tcp(localhost:3306)/offer_reserve?parseTime=true&loc=Asia%2FHo_Chi_Minh",
		conf.DSN())
	assert.Equal(t,
		"mysql://root:1@tcp(localhost:3306)/offer_reserve?parseTime=true&loc=Asia%2FHo_Chi_Minh",
		conf.MigrateURL())
}

func TestNewLogger__Invalid_Level(t *testing.T) {
	assert.Panics(t, func() {
		NewLogger(LogConfig{Level: "verbose"})
	})
	assert.NotPanics(t, func() {
		NewLogger(LogConfig{Level: "debug", Development: true})
	})
}
