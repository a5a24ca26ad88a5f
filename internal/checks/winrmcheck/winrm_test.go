package winrmcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

func TestDriver_Check_NoInterface_ConfigError(t *testing.T) {
	d := Driver{}
	_, errCode := d.Check(context.Background(), models.Item{})
	assert.Equal(t, models.ConfigError, errCode)
}

func TestDriver_Check_MissingCredentials_ConfigError(t *testing.T) {
	d := Driver{}
	item := models.Item{Interface: &models.Interface{Addr: "10.0.0.1", Port: 5985}}
	_, errCode := d.Check(context.Background(), item)
	assert.Equal(t, models.ConfigError, errCode)
}
