// Package preparer разворачивает макросы и отдельные поля элемента перед
// опросом, зеркалит zbx_prepare_items/zbx_clean_items из
// original_source/poller.c.
package preparer

import (
	"fmt"
	"strconv"

	"github.com/trsv-dev/zbxpoller/internal/errs"
	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
)

// Preparer Разворачивает элементы партии в разрешённые копии полей,
// готовые к передаче в CheckDispatcher/HttpAsyncEngine.
type Preparer struct {
	Expander ports.MacroExpander
}

// Prepare Разворачивает макросы каждого элемента партии на месте. Ошибка
// подготовки одного элемента помечает его ConfigError и не прерывает
// обработку остальных (§4.2, §7 спеки).
func (p Preparer) Prepare(batch *models.Batch, expandMacros bool) {
	for i := range batch.Slots {
		slot := &batch.Slots[i]
		if slot.ErrCode != models.Success {
			// элемент уже помечен ошибкой выше по конвейеру (не должно
			// происходить на входе Prepare, но защищаемся симметрично
			// оригиналу, который пропускает уже провалившиеся элементы).
			continue
		}
		if err := p.prepareOne(&slot.Item, expandMacros); err != nil {
			slot.ErrCode = models.ConfigError
			slot.Result.SetMsg(err.Error())
		}
	}
}

// Clean Освобождает разрешённые копии полей партии. В Go-реализации поля
// живут в обычных строках под управлением GC, так что освобождать в явном
// виде нечего; метод существует, чтобы вызывающий код (PollerLoop)
// по-прежнему делал симметричный вызов Prepare/Clean, как того требует P5 —
// после Clean оригиналы, хранимые ConfigCache, остаются побайтово
// идентичны их состоянию до Prepare, поскольку Prepare никогда не касается
// ConfigCache напрямую, только клонов партии.
func (p Preparer) Clean(batch *models.Batch) {
	for i := range batch.Slots {
		batch.Slots[i].Item.Key = ""
		batch.Slots[i].Item.SnmpCommunity = ""
		batch.Slots[i].Item.SnmpOID = ""
		batch.Slots[i].Item.SnmpV3SecurityName = ""
		batch.Slots[i].Item.SnmpV3AuthPassphrase = ""
		batch.Slots[i].Item.SnmpV3PrivPassphrase = ""
		batch.Slots[i].Item.SnmpV3ContextName = ""
		batch.Slots[i].Item.Timeout = ""
		batch.Slots[i].Item.PublicKey = ""
		batch.Slots[i].Item.PrivateKey = ""
		batch.Slots[i].Item.Username = ""
		batch.Slots[i].Item.Password = ""
		batch.Slots[i].Item.JmxEndpoint = ""
		batch.Slots[i].Item.URL = ""
		batch.Slots[i].Item.StatusCodes = ""
		batch.Slots[i].Item.HTTPProxy = ""
		batch.Slots[i].Item.SSLCertFile = ""
		batch.Slots[i].Item.SSLKeyFile = ""
		batch.Slots[i].Item.SSLKeyPassword = ""
		batch.Slots[i].Item.QueryFields = ""
		batch.Slots[i].Item.Headers = ""
		batch.Slots[i].Item.Posts = ""
		if iface := batch.Slots[i].Item.Interface; iface != nil {
			iface.Port = 0
		}
	}
}

func (p Preparer) prepareOne(item *models.Item, expandMacros bool) error {
	key := item.KeyOrig
	if expandMacros {
		expanded, err := p.Expander.Expand(*item, ports.ScopeItemKey, item.KeyOrig)
		if err != nil {
			return fmt.Errorf("expand item key: %w", err)
		}
		key = expanded
	}
	item.Key = key

	if item.Interface != nil {
		switch item.Type {
		case models.AgentPassive, models.SNMP, models.JMX:
			if err := resolvePort(p.Expander, item); err != nil {
				return err
			}
		}
	}

	switch item.Type {
	case models.SNMP:
		return p.prepareSNMP(item, expandMacros)
	case models.Script:
		return p.prepareScript(item, expandMacros)
	case models.SSH:
		if err := p.prepareSSH(item, expandMacros); err != nil {
			return err
		}
		return p.prepareCredentials(item, expandMacros)
	case models.Telnet, models.DbMonitor:
		if expandMacros {
			params, err := p.Expander.Expand(*item, ports.ScopeParamsField, item.Params)
			if err != nil {
				return fmt.Errorf("expand params: %w", err)
			}
			item.Params = params
		}
		return p.prepareCredentials(item, expandMacros)
	case models.Simple:
		return p.prepareCredentials(item, expandMacros)
	case models.JMX:
		if err := p.prepareCredentials(item, expandMacros); err != nil {
			return err
		}
		return p.prepareJmxEndpoint(item, expandMacros)
	case models.HttpAgent:
		return p.prepareHTTP(item, expandMacros)
	}

	return nil
}

func resolvePort(expander ports.MacroExpander, item *models.Item) error {
	raw := item.Interface.PortOrig
	resolved := raw
	if expander != nil {
		expanded, err := expander.Expand(*item, ports.ScopeCommon, raw)
		if err != nil {
			return fmt.Errorf("expand port: %w", err)
		}
		resolved = expanded
	}
	port, err := strconv.ParseUint(resolved, 10, 16)
	if err != nil {
		return errs.NewErrBadPort(resolved, err)
	}
	item.Interface.Port = uint16(port)
	return nil
}

func (p Preparer) prepareSNMP(item *models.Item, expandMacros bool) error {
	if !expandMacros {
		item.SnmpCommunity = item.SnmpCommunityOrig
		item.SnmpOID = item.SnmpOIDOrig
		if item.SnmpVersion == models.SnmpV3 {
			item.SnmpV3SecurityName = item.SnmpV3SecurityNameOrig
			item.SnmpV3AuthPassphrase = item.SnmpV3AuthPassphraseOrig
			item.SnmpV3PrivPassphrase = item.SnmpV3PrivPassphraseOrig
			item.SnmpV3ContextName = item.SnmpV3ContextNameOrig
		}
		return nil
	}

	var err error
	if item.SnmpCommunity, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SnmpCommunityOrig); err != nil {
		return fmt.Errorf("expand snmp community: %w", err)
	}
	if item.SnmpOID, err = p.Expander.Expand(*item, ports.ScopeSnmpOid, item.SnmpOIDOrig); err != nil {
		return fmt.Errorf("expand snmp oid: %w", err)
	}
	if item.SnmpVersion != models.SnmpV3 {
		return nil
	}
	if item.SnmpV3SecurityName, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SnmpV3SecurityNameOrig); err != nil {
		return fmt.Errorf("expand snmpv3 security name: %w", err)
	}
	if item.SnmpV3AuthPassphrase, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SnmpV3AuthPassphraseOrig); err != nil {
		return fmt.Errorf("expand snmpv3 auth passphrase: %w", err)
	}
	if item.SnmpV3PrivPassphrase, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SnmpV3PrivPassphraseOrig); err != nil {
		return fmt.Errorf("expand snmpv3 priv passphrase: %w", err)
	}
	if item.SnmpV3ContextName, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SnmpV3ContextNameOrig); err != nil {
		return fmt.Errorf("expand snmpv3 context name: %w", err)
	}
	return nil
}

func (p Preparer) prepareScript(item *models.Item, expandMacros bool) error {
	if !expandMacros {
		item.Timeout = item.TimeoutOrig
		return nil
	}
	timeout, err := p.Expander.Expand(*item, ports.ScopeCommon, item.TimeoutOrig)
	if err != nil {
		return fmt.Errorf("expand timeout: %w", err)
	}
	item.Timeout = timeout

	scriptParams, err := p.Expander.Expand(*item, ports.ScopeScriptParamsField, item.ScriptParams)
	if err != nil {
		return fmt.Errorf("expand script params: %w", err)
	}
	item.ScriptParams = scriptParams

	params, err := p.Expander.Expand(*item, ports.ScopeParamsField, item.Params)
	if err != nil {
		return fmt.Errorf("expand params: %w", err)
	}
	item.Params = params
	return nil
}

func (p Preparer) prepareSSH(item *models.Item, expandMacros bool) error {
	if !expandMacros {
		item.PublicKey = item.PublicKeyOrig
		item.PrivateKey = item.PrivateKeyOrig
		return nil
	}
	var err error
	if item.PublicKey, err = p.Expander.Expand(*item, ports.ScopeCommon, item.PublicKeyOrig); err != nil {
		return fmt.Errorf("expand public key: %w", err)
	}
	if item.PrivateKey, err = p.Expander.Expand(*item, ports.ScopeCommon, item.PrivateKeyOrig); err != nil {
		return fmt.Errorf("expand private key: %w", err)
	}
	if item.Params, err = p.Expander.Expand(*item, ports.ScopeParamsField, item.Params); err != nil {
		return fmt.Errorf("expand params: %w", err)
	}
	return nil
}

func (p Preparer) prepareCredentials(item *models.Item, expandMacros bool) error {
	if !expandMacros {
		item.Username = item.UsernameOrig
		item.Password = item.PasswordOrig
		return nil
	}
	var err error
	if item.Username, err = p.Expander.Expand(*item, ports.ScopeCommon, item.UsernameOrig); err != nil {
		return fmt.Errorf("expand username: %w", err)
	}
	if item.Password, err = p.Expander.Expand(*item, ports.ScopeCommon, item.PasswordOrig); err != nil {
		return fmt.Errorf("expand password: %w", err)
	}
	return nil
}

func (p Preparer) prepareJmxEndpoint(item *models.Item, expandMacros bool) error {
	if !expandMacros {
		item.JmxEndpoint = item.JmxEndpointOrig
		return nil
	}
	endpoint, err := p.Expander.Expand(*item, ports.ScopeJmxEndpoint, item.JmxEndpointOrig)
	if err != nil {
		return fmt.Errorf("expand jmx endpoint: %w", err)
	}
	item.JmxEndpoint = endpoint
	return nil
}
