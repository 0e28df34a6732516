package mysql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shinji-kodama/dbdock/internal/model"
)

func TestClient_Commands(t *testing.T) {
	c := NewClient("root")

	assert.Equal(t,
		[]string{"mysql", "--user=root", "-e", "CREATE DATABASE IF NOT EXISTS `bar`"},
		c.CreateDatabase("bar"))
	assert.Equal(t,
		[]string{"mysql", "--user=root", "--database=bar"},
		c.Import("bar"))
	assert.Equal(t,
		[]string{"mysqldump", "--user=root", "--", "bar"},
		c.Dump("bar"))
	assert.Equal(t,
		[]string{"mysql", "--user=root", "-e", "SHOW DATABASES"},
		c.Query("SHOW DATABASES"))
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"shop", "`shop`"},
		{"my-db", "`my-db`"},
		{"we`ird", "`we``ird`"},
		{"", "``"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdentifier(tt.in))
		})
	}
}

func TestJoinStatement(t *testing.T) {
	assert.Equal(t, "SELECT * FROM users WHERE id = 1",
		JoinStatement([]string{"SELECT", "*", "FROM", "users", "WHERE", "id", "=", "1"}))
	assert.Equal(t, "SHOW TABLES", JoinStatement([]string{"SHOW TABLES"}))
	assert.Equal(t, "", JoinStatement(nil))
}

func TestPasswordEnv(t *testing.T) {
	assert.Equal(t, map[string]string{"MYSQL_PWD": "s3cr3t"}, PasswordEnv("s3cr3t"))
}

func TestValidateDatabaseName(t *testing.T) {
	tests := []struct {
		name     string
		hasError bool
	}{
		{"shop", false},
		{"shop_2024", false},
		{"my-db", false},
		{"", true},
		{"--all-databases", true},
		{strings.Repeat("a", 64), false},
		{strings.Repeat("a", 65), true},
		{"a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseName(tt.name)
			if tt.hasError {
				assert.Error(t, err)
				assert.Equal(t, model.KindInvalidArgument, model.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
