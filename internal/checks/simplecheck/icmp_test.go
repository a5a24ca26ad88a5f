package simplecheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trsv-dev/zbxpoller/internal/models"
)

func TestICMPDriver_Check_NoInterface_ConfigError(t *testing.T) {
	d := ICMPDriver{}
	_, errCode := d.Check(context.Background(), models.Item{})
	assert.Equal(t, models.ConfigError, errCode)
}

func TestICMPDriver_Check_UnresolvableHost_NetworkError(t *testing.T) {
	d := ICMPDriver{}
	item := models.Item{Interface: &models.Interface{Addr: "this.host.does.not.resolve.invalid"}}
	_, errCode := d.Check(context.Background(), item)
	assert.Equal(t, models.NetworkError, errCode)
}
