package config

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/consul/api"
)

// OverrideFromConsulKV 从 Consul KV 读取 JSON 片段并覆盖到 cfg 上。
//
// 约定：
// - value 必须是 JSON，结构为 Config 的子集（未出现的字段保持原值）
// - key 不存在时返回错误，由调用方决定是否降级为本地配置
func OverrideFromConsulKV(cfg *Config, key string) error {
	if cfg == nil {
		return fmt.Errorf("cfg is nil")
	}
	if key == "" {
		return fmt.Errorf("consul kv key is empty")
	}

	c, err := api.NewClient(&api.Config{
		Address: fmt.Sprintf("%s:%d", cfg.Consul.Host, cfg.Consul.Port),
	})
	if err != nil {
		return fmt.Errorf("failed to create consul client: %w", err)
	}

	pair, _, err := c.KV().Get(key, nil)
	if err != nil {
		return fmt.Errorf("failed to get consul kv key=%s: %w", key, err)
	}
	if pair == nil || len(pair.Value) == 0 {
		return fmt.Errorf("consul kv key=%s is empty or not found", key)
	}

	if err := json.Unmarshal(pair.Value, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal consul kv json key=%s: %w", key, err)
	}
	return nil
}
