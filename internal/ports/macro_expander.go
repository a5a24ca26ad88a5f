package ports

import "github.com/trsv-dev/zbxpoller/internal/models"

//go:generate mockgen -destination=mocks/macro_expander_mock.go -package=mocks . MacroExpander

// MacroScope Область подстановки макросов — разные поля элемента требуют
// разного набора доступных макросов и разного экранирования (§3, §4.2 спеки).
type MacroScope int

const (
	// ScopeItemKey Ключ элемента и общие строковые поля (params, script).
	ScopeItemKey MacroScope = iota
	// ScopeSnmpOid SNMP OID — запрещены макросы, разворачивающиеся в значения
	// с управляющими символами.
	ScopeSnmpOid
	// ScopeCommon Общее поле без специфичных ограничений (host, username...).
	ScopeCommon
	// ScopeHttpRaw Сырое тело HTTP-запроса.
	ScopeHttpRaw
	// ScopeHttpJSON Тело HTTP-запроса в формате JSON — значения макросов
	// экранируются как JSON-строки.
	ScopeHttpJSON
	// ScopeXMLMasked Тело HTTP-запроса в формате XML — значения макросов
	// экранируются как XML-текст; разворачивается через ExpandMasked.
	ScopeXMLMasked
	// ScopeScriptParamsField Параметры скрипта (по одному на параметр).
	ScopeScriptParamsField
	// ScopeParamsField Параметры command-подобных элементов.
	ScopeParamsField
	// ScopeJmxEndpoint JMX service URL.
	ScopeJmxEndpoint
)

// MacroExpander Разворачивает макросы узла/элемента в строковых полях
// элемента. Реализация владеет знанием о графе макросов конкретного хоста;
// ядро поллера лишь указывает, в каком контексте разворачивается строка.
type MacroExpander interface {
	// Expand Разворачивает макросы в unmasked-режиме — результат идёт в
	// поле, реально используемое при опросе.
	Expand(item models.Item, scope MacroScope, raw string) (string, error)

	// ExpandMasked Разворачивает макросы в masked-режиме: секретные макросы
	// (пароли, приватные ключи, пользовательские секретные макросы)
	// заменяются звёздочками. ItemPreparer использует этот режим для тела
	// XML POST-запроса (PostXML), и результат попадает в Item.Posts.
	ExpandMasked(item models.Item, scope MacroScope, raw string) (string, error)
}
