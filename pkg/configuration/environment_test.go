package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestOrderingOptionsValidate(t *testing.T) {
	for _, policy := range []string{"clamp", "reject"} {
		o := OrderingOptions{BoundsPolicy: policy}
		require.NoError(t, o.Validate())
	}

	o := OrderingOptions{BoundsPolicy: "wrap"}
	require.Error(t, o.Validate())
}

func TestAllowedOriginList(t *testing.T) {
	c := &Configuration{AllowedOrigins: "http://localhost:3000, https://mozartiade.example ,"}
	require.Equal(t, []string{"http://localhost:3000", "https://mozartiade.example"}, c.AllowedOriginList())

	c = &Configuration{AllowedOrigins: ""}
	require.Empty(t, c.AllowedOriginList())
}

func TestLogrusLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"silent": logrus.PanicLevel,
		"error":  logrus.ErrorLevel,
		"warn":   logrus.WarnLevel,
		"info":   logrus.InfoLevel,
		"debug":  logrus.DebugLevel,
		"bogus":  logrus.ErrorLevel,
		"":       logrus.ErrorLevel,
	}
	for input, want := range cases {
		c := &Configuration{LogLevel: input}
		require.Equal(t, want, c.LogrusLogLevel(), input)
	}
}

func TestDatabaseConnectionString(t *testing.T) {
	d := DatabaseOptions{
		Name:     "mozartiade",
		Host:     "db.internal",
		Port:     "6432",
		User:     "app",
		Password: "s3cret",
	}
	require.Equal(
		t,
		"host=db.internal port=6432 user=app dbname=mozartiade password=s3cret sslmode=disable",
		d.ConnectionString(),
	)
}
