package config

import "fmt"

// ServerListen ...
type ServerListen struct {
	Host string `mapstructure:"host"`
	Port uint16 `mapstructure:"port"`
}

// ServerConfig ...
type ServerConfig struct {
	GRPC ServerListen `mapstructure:"grpc"`
	HTTP ServerListen `mapstructure:"http"`
}

// String for dialing
func (s ServerListen) String() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ListenString for listening on all interfaces
func (s ServerListen) ListenString() string {
	return fmt.Sprintf(":%d", s.Port)
}
