package walletaddr

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"EVM地址", "0x52908400098527886E0F7030069857D2E4169EE7", true},
		{"EVM全小写", "0xde709f2102306220921060314715629080e2fb77", true},
		{"Base58地址", "7rVz8s1QyFbK3mN4pXj2tUwWgHhJdLeCq9ZaPoYxuB5k", true},
		{"空串", "", false},
		{"缺少0x前缀", "52908400098527886E0F7030069857D2E4169EE7", false},
		{"十六进制长度不足", "0x5290840009852788", false},
		{"含非法字符", "0x52908400098527886E0F7030069857D2E4169GGG", false},
		{"Base58含易混淆字符0", "0rVz8s1QyFbK3mN4pXj2tUwWgHhJdLeCq9ZaPoYx", false},
		{"Base58过短", "7rVz8s1QyFbK3mN4pXj2tUwWgHh", false},
		{"超长输入", "0x52908400098527886E0F7030069857D2E4169EE752908400098527886E0F7030069857D2E4169EE7", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.address); got != tt.want {
				t.Fatalf("IsValid(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}
