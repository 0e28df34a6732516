package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrchestrator_Plugin(t *testing.T) {
	o := NewOrchestrator("docker", []string{"compose"}, "docker-compose.yml", "shop")

	assert.Equal(t,
		[]string{"compose", "-f", "docker-compose.yml", "-p", "shop", "up", "-d"},
		o.Up())
	assert.Equal(t,
		[]string{"compose", "-f", "docker-compose.yml", "-p", "shop", "down"},
		o.Down())
}

func TestOrchestrator_Standalone(t *testing.T) {
	o := NewOrchestrator("docker-compose", nil, "stack.yml", "")

	assert.Equal(t, []string{"-f", "stack.yml", "up", "-d"}, o.Up())
	assert.Equal(t, []string{"-f", "stack.yml", "down"}, o.Down())
}

func TestOrchestrator_Exec(t *testing.T) {
	o := NewOrchestrator("docker", []string{"compose"}, "docker-compose.yml", "shop")

	t.Run("interactive", func(t *testing.T) {
		got := o.Exec("mysql", ExecOptions{TTY: true}, "bash")
		assert.Equal(t,
			[]string{"compose", "-f", "docker-compose.yml", "-p", "shop", "exec", "mysql", "bash"},
			got)
	})

	t.Run("non-interactive with env in key order", func(t *testing.T) {
		got := o.Exec("mysql", ExecOptions{
			Env: map[string]string{"MYSQL_PWD": "s3cr3t", "LANG": "C.UTF-8"},
		}, "mysql", "-uroot", "shop")
		assert.Equal(t, []string{
			"compose", "-f", "docker-compose.yml", "-p", "shop",
			"exec", "-T", "-e", "LANG=C.UTF-8", "-e", "MYSQL_PWD=s3cr3t",
			"mysql", "mysql", "-uroot", "shop",
		}, got)
	})

	t.Run("forwarded env carries no value", func(t *testing.T) {
		got := o.Exec("mysql", ExecOptions{Forward: []string{"MYSQL_PWD"}}, "mysql")
		assert.Equal(t, []string{
			"compose", "-f", "docker-compose.yml", "-p", "shop",
			"exec", "-T", "-e", "MYSQL_PWD", "mysql", "mysql",
		}, got)
	})
}
