package preparer

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
	"github.com/trsv-dev/zbxpoller/internal/utils"
)

// queryField Одна пара имя=значение из поля query_fields HttpAgent-элемента.
// Поле читается как текст из строк "имя=значение" (см. parseQueryFields);
// JSON-массив однопарных объектов здесь не разбирается.
type queryField struct {
	Name  string
	Value string
}

func (p Preparer) prepareHTTP(item *models.Item, expandMacros bool) error {
	if !expandMacros {
		item.Timeout = item.TimeoutOrig
		item.URL = item.URLOrig
		item.StatusCodes = item.StatusCodesOrig
		item.HTTPProxy = item.HTTPProxyOrig
		item.SSLCertFile = item.SSLCertFileOrig
		item.SSLKeyFile = item.SSLKeyFileOrig
		item.SSLKeyPassword = item.SSLKeyPasswordOrig
		item.Username = item.UsernameOrig
		item.Password = item.PasswordOrig
		item.QueryFields = item.QueryFieldsOrig
		item.Headers = item.HeadersOrig
		item.Posts = item.PostsOrig
		return expandURL(item)
	}

	var err error
	if item.Timeout, err = p.Expander.Expand(*item, ports.ScopeCommon, item.TimeoutOrig); err != nil {
		return fmt.Errorf("expand timeout: %w", err)
	}
	if item.URL, err = p.Expander.Expand(*item, ports.ScopeHttpRaw, item.URLOrig); err != nil {
		return fmt.Errorf("expand url: %w", err)
	}
	if item.StatusCodes, err = p.Expander.Expand(*item, ports.ScopeCommon, item.StatusCodesOrig); err != nil {
		return fmt.Errorf("expand status codes: %w", err)
	}
	if item.HTTPProxy, err = p.Expander.Expand(*item, ports.ScopeCommon, item.HTTPProxyOrig); err != nil {
		return fmt.Errorf("expand http proxy: %w", err)
	}
	if item.SSLCertFile, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SSLCertFileOrig); err != nil {
		return fmt.Errorf("expand ssl cert file: %w", err)
	}
	if item.SSLKeyFile, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SSLKeyFileOrig); err != nil {
		return fmt.Errorf("expand ssl key file: %w", err)
	}
	if item.SSLKeyPassword, err = p.Expander.Expand(*item, ports.ScopeCommon, item.SSLKeyPasswordOrig); err != nil {
		return fmt.Errorf("expand ssl key password: %w", err)
	}
	if item.Username, err = p.Expander.Expand(*item, ports.ScopeCommon, item.UsernameOrig); err != nil {
		return fmt.Errorf("expand username: %w", err)
	}
	if item.Password, err = p.Expander.Expand(*item, ports.ScopeCommon, item.PasswordOrig); err != nil {
		return fmt.Errorf("expand password: %w", err)
	}
	if item.QueryFields, err = p.Expander.Expand(*item, ports.ScopeHttpRaw, item.QueryFieldsOrig); err != nil {
		return fmt.Errorf("expand query fields: %w", err)
	}
	if item.Headers, err = p.Expander.Expand(*item, ports.ScopeCommon, item.HeadersOrig); err != nil {
		return fmt.Errorf("expand headers: %w", err)
	}

	switch item.PostType {
	case models.PostXML:
		item.Posts, err = p.Expander.ExpandMasked(*item, ports.ScopeXMLMasked, item.PostsOrig)
		if err != nil {
			return fmt.Errorf("expand xml posts: %w", err)
		}
	case models.PostJSON:
		item.Posts, err = p.Expander.Expand(*item, ports.ScopeHttpJSON, item.PostsOrig)
		if err != nil {
			return fmt.Errorf("expand json posts: %w", err)
		}
	default:
		item.Posts, err = p.Expander.Expand(*item, ports.ScopeHttpRaw, item.PostsOrig)
		if err != nil {
			return fmt.Errorf("expand raw posts: %w", err)
		}
	}

	if err := expandURL(item); err != nil {
		return err
	}
	return appendQueryFields(item)
}

// expandURL Прогоняет хост URL через IDN/punycode туда-обратно, как того
// требует §4.2: URL должен переживать этот круговой проход без искажений.
func expandURL(item *models.Item) error {
	u, err := url.Parse(item.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Host == "" {
		return nil
	}
	host, port := u.Hostname(), u.Port()
	if utils.IsValidIP(host) {
		// IP-литерал, раскрывать как IDN нечего.
		return nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return fmt.Errorf("idna encode host %q: %w", host, err)
	}
	unicodeHost, err := idna.Lookup.ToUnicode(ascii)
	if err != nil {
		return fmt.Errorf("idna decode host %q: %w", ascii, err)
	}
	if port != "" {
		u.Host = unicodeHost + ":" + port
	} else {
		u.Host = unicodeHost
	}
	item.URL = u.String()
	return nil
}

// appendQueryFields Разбирает QueryFields как последовательность пар
// "имя=значение" (по одной паре на строку после раскрытия макросов) и
// дописывает их percent-encoded (url.QueryEscape) в конец URL в том порядке,
// в каком они заданы; существующая строка запроса URL сохраняется как есть.
// Повторная подготовка уже нормализованного URL без query_fields отдаёт те
// же байты (P6).
func appendQueryFields(item *models.Item) error {
	fields, err := parseQueryFields(item.QueryFields)
	if err != nil {
		return fmt.Errorf("parse query fields: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	u, err := url.Parse(item.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	q := u.Query()
	for _, f := range fields {
		q.Add(f.Name, f.Value)
	}

	sep := "?"
	if u.RawQuery != "" {
		sep = "&"
	}
	base := u.String()
	if idx := strings.IndexByte(base, '?'); idx >= 0 {
		base = base[:idx]
	}
	item.URL = base
	if u.RawQuery != "" {
		item.URL += "?" + u.RawQuery + "&" + encodeFields(fields)
	} else {
		item.URL += sep + encodeFields(fields)
	}
	return nil
}

func encodeFields(fields []queryField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, url.QueryEscape(f.Name)+"="+url.QueryEscape(f.Value))
	}
	return strings.Join(parts, "&")
}

// parseQueryFields Разбирает строку вида "name1=value1\nname2=value2" —
// по одной паре на строку, после раскрытия макросов. Строка без "=" —
// ошибка; JSON-форма не распознаётся.
func parseQueryFields(raw string) ([]queryField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var fields []queryField
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			return nil, fmt.Errorf("malformed query field %q", line)
		}
		fields = append(fields, queryField{Name: line[:idx], Value: line[idx+1:]})
	}
	return fields, nil
}
