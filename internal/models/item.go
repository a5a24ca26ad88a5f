package models

// ItemType Тип проверки (способ опроса удалённого объекта).
type ItemType int

const (
	AgentPassive ItemType = iota
	SNMP
	Simple
	Internal
	ExternalCommand
	DbMonitor
	SSH
	Telnet
	Calculated
	HttpAgent
	Script
	JMX
)

// ValueType Тип значения, которое отдаёт проверка.
type ValueType int

const (
	ValueNumeric ValueType = iota
	ValueText
	ValueLog
	ValueBinary
)

// ItemState Состояние элемента после последней попытки опроса.
type ItemState int

const (
	StateNormal ItemState = iota
	StateNotSupported
)

// SnmpVersion Версия протокола SNMP.
type SnmpVersion int

const (
	SnmpV1 SnmpVersion = iota
	SnmpV2
	SnmpV3
)

// PostType Формат тела HTTP POST-запроса HttpAgent-элемента.
type PostType int

const (
	PostRaw PostType = iota
	PostXML
	PostJSON
)

// Host Минимальный набор атрибутов узла, необходимый для опроса и логирования.
type Host struct {
	HostID   int64
	Host     string // техническое имя узла, используется в логах (как в оригинале item->host.host)
	Name     string // отображаемое имя
}

// Item Единица опроса: одна проверка, привязанная к хосту и, как правило, к интерфейсу.
//
// Поля с суффиксом "_orig" хранят неразрешённый (макро-подстановки не
// применены) вариант значения, в точности как у исходного C-кода; поле без
// суффикса — разрешённый "двойник", заполняемый ItemPreparer.Prepare и
// освобождаемый ItemPreparer.Clean. Оригиналы в ConfigCache никогда не
// изменяются.
type Item struct {
	ItemID    int64
	Type      ItemType
	KeyOrig   string
	Key       string // разрешённый ключ, заполняется в Prepare
	Host      Host
	Interface *Interface // nil для Calculated/Internal элементов
	ValueType ValueType
	Flags     uint64
	State     ItemState

	// SNMP
	SnmpVersion               SnmpVersion
	SnmpCommunityOrig         string
	SnmpCommunity             string
	SnmpOIDOrig               string
	SnmpOID                   string
	SnmpV3SecurityNameOrig    string
	SnmpV3SecurityName        string
	SnmpV3AuthPassphraseOrig  string
	SnmpV3AuthPassphrase      string
	SnmpV3PrivPassphraseOrig  string
	SnmpV3PrivPassphrase      string
	SnmpV3ContextNameOrig     string
	SnmpV3ContextName         string

	// Script
	TimeoutOrig    string
	Timeout        string
	ScriptParams   string
	Params         string

	// SSH
	PublicKeyOrig  string
	PublicKey      string
	PrivateKeyOrig string
	PrivateKey     string

	// Simple / Telnet / DbMonitor / JMX credentials
	UsernameOrig string
	Username     string
	PasswordOrig string
	Password     string

	// JMX
	JmxEndpointOrig string
	JmxEndpoint     string

	// HttpAgent
	URLOrig          string
	URL              string
	StatusCodesOrig  string
	StatusCodes      string
	HTTPProxyOrig    string
	HTTPProxy        string
	SSLCertFileOrig  string
	SSLCertFile      string
	SSLKeyFileOrig   string
	SSLKeyFile       string
	SSLKeyPassword   string
	SSLKeyPasswordOrig string
	QueryFieldsOrig  string
	QueryFields      string
	HeadersOrig      string
	Headers          string
	PostsOrig        string
	Posts            string
	PostType         PostType
	RequestMethod    string
	FollowRedirects  bool

	// ExternalCommand / Script / Internal
	Command string
}

// Clone Возвращает поверхностную копию элемента. ItemPreparer.Prepare работает
// над копиями, чтобы не затрагивать оригиналы, хранящиеся в ConfigCache.
func (i Item) Clone() Item {
	return i
}
