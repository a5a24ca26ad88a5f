// Package winrmcheck реализует a SSH-типа драйвер поверх WinRM-клиента,
// перенесённого из internal/service_control оригинального репозитория-
// учителя — в этом домене WinRM играет ту же роль, что удалённое выполнение
// команд через SSH/Telnet в оригинале протокола.
package winrmcheck

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/masterzen/winrm"

	"github.com/trsv-dev/zbxpoller/internal/config"
	"github.com/trsv-dev/zbxpoller/internal/models"
)

// Driver Драйвер SSH-элементов, исполняющий Item.Command через WinRM вместо
// настоящего SSH — удобная замена в средах, где удалённое исполнение
// команд идёт через Windows Remote Management. Transport-уровневые
// настройки переиспользуют config.WinRMConfig учителя как есть; порт берётся
// с разрешённого интерфейса элемента, а не из WinRMConfig.Port (тот остаётся
// процесс-уровневым значением по умолчанию для случаев без явного порта).
type Driver struct {
	WinRM *config.WinRMConfig
}

// Check Реализует checks.Driver для ItemType == models.SSH.
func (d Driver) Check(ctx context.Context, item models.Item) (models.Result, models.ErrCode) {
	if item.Interface == nil {
		var r models.Result
		r.SetMsg("ssh check requires an interface")
		return r, models.ConfigError
	}

	cfg := d.WinRM
	if cfg == nil {
		cfg = &config.WinRMConfig{}
	}

	port := strconv.Itoa(int(item.Interface.Port))
	if item.Interface.Port == 0 && cfg.Port != "" {
		port = cfg.Port
	}
	client, err := newClient(item.Interface.Addr, port, item.Username, item.Password, cfg.UseHTTPS, cfg.InsecureHTTPS, cfg.Timeout)
	if err != nil {
		var r models.Result
		r.SetMsg(err.Error())
		return r, models.ConfigError
	}

	out, err := client.run(ctx, item.Command)
	if err != nil {
		var r models.Result
		r.SetMsg(fmt.Sprintf("remote command failed: %s", err))
		return r, models.NetworkError
	}

	var r models.Result
	r.SetText(out)
	return r, models.Success
}

type client struct {
	winrm *winrm.Client
}

func newClient(addr, port, user, password string, useHTTPS, insecureForHTTPS bool, timeout time.Duration) (*client, error) {
	if addr == "" || port == "" || user == "" {
		return nil, fmt.Errorf("address, port and username are required")
	}

	winrmPort, err := strconv.Atoi(port)
	if err != nil || winrmPort < 1 || winrmPort > 65535 {
		return nil, fmt.Errorf("invalid port %q", port)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	endpoint := &winrm.Endpoint{
		Host:     addr,
		Port:     winrmPort,
		HTTPS:    useHTTPS,
		Insecure: useHTTPS && insecureForHTTPS,
		Timeout:  timeout,
	}

	c, err := winrm.NewClient(endpoint, user, password)
	if err != nil {
		return nil, fmt.Errorf("cannot create winrm client for %s:%d: %w", addr, winrmPort, err)
	}
	return &client{winrm: c}, nil
}

func (c *client) run(ctx context.Context, cmd string) (string, error) {
	var stdout, stderr bytes.Buffer
	if _, err := c.winrm.RunWithContext(ctx, cmd, &stdout, &stderr); err != nil {
		return "", fmt.Errorf("%w; stderr: %s", err, stderr.String())
	}
	return stdout.String(), nil
}
