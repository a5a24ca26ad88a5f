package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsAlphaNumeric Проверяет буквы и цифры, а также отказ на прочих символах.
func TestIsAlphaNumeric(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect bool
	}{
		{"строчные буквы", "abcdefghijklmnopqrstuvwxyz", true},
		{"прописные буквы", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", true},
		{"цифры", "0123456789", true},
		{"буквы и цифры", "abc123XYZ", true},
		{"пустая строка", "", false},
		{"с пробелом", "abc def", false},
		{"с дефисом", "abc-123", false},
		{"с кириллицей", "абвгд", false},
		{"с юникодом", "😀", false},
		{"с табуляцией", "abc\tdef", false},
		{"с новой строкой", "abc\ndef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsAlphaNumeric(tt.input))
		})
	}
}

// TestIsDigitsOnly Проверяет, что строка состоит только из цифр.
func TestIsDigitsOnly(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect bool
	}{
		{"только цифры", "1234567890", true},
		{"одна цифра", "7", true},
		{"пустая строка", "", false},
		{"буквы и цифры", "123abc", false},
		{"знак минус", "-123", false},
		{"с пробелом", "123 456", false},
		{"дробное число", "3.14", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsDigitsOnly(tt.input))
		})
	}
}

// TestIsValidIP Проверяет валидацию IPv4/IPv6-адресов.
func TestIsValidIP(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect bool
	}{
		{"валидный IPv4", "192.168.1.1", true},
		{"валидный IPv4 loopback", "127.0.0.1", true},
		{"валидный IPv6", "::1", true},
		{"валидный IPv6 полный", "2001:db8::ff00:42:8329", true},
		{"пустая строка", "", false},
		{"не адрес", "not-an-ip", false},
		{"октет вне диапазона", "999.999.999.999", false},
		{"с портом", "192.168.1.1:8080", false},
		{"домен", "example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsValidIP(tt.input))
		})
	}
}
