package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type seedType struct {
	name        string
	category    string
	description string
	score       int
}

var defaultBehaviorTypes = []seedType{
	{"迟到", "违纪", "上课迟到", -1},
	{"早退", "违纪", "未经许可提前离开", -1},
	{"打架", "违纪", "与他人发生肢体冲突", -3},
	{"帮助同学", "优秀", "主动帮助有困难的同学", 1},
	{"志愿服务", "优秀", "参与学校志愿服务活动", 2},
	{"获奖", "优秀", "在比赛或竞赛中获奖", 3},
}

type seedScoreItem struct {
	name        string
	category    string
	score       float64
	description string
}

var defaultScoreItems = []seedScoreItem{
	{"课堂表现优秀", "加分", 2, "在课堂上积极参与，表现突出"},
	{"参与志愿服务", "加分", 3, "参与学校或社会志愿服务活动"},
	{"获得竞赛奖项", "加分", 5, "在学科竞赛中获得奖项"},
	{"违反课堂纪律", "减分", -2, "在课堂上扰乱秩序"},
	{"迟到早退", "减分", -1, "无故迟到或早退"},
	{"违反校规", "减分", -3, "违反学校规章制度"},
}

// Seed inserts the static admin account and the default behavior type and
// score item catalogs on first boot. Existing rows are left untouched.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var adminCount int
	if err := db.GetContext(ctx, &adminCount, "SELECT COUNT(*) FROM users WHERE username = ?", "admin"); err != nil {
		return fmt.Errorf("seed: check admin: %w", err)
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("seed: hash admin password: %w", err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
			"admin", string(hash), "admin"); err != nil {
			return fmt.Errorf("seed: insert admin: %w", err)
		}
	}

	var typeCount int
	if err := db.GetContext(ctx, &typeCount, "SELECT COUNT(*) FROM behavior_types"); err != nil {
		return fmt.Errorf("seed: count behavior types: %w", err)
	}
	if typeCount == 0 {
		for _, t := range defaultBehaviorTypes {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO behavior_types (name, category, description, score) VALUES (?, ?, ?, ?)",
				t.name, t.category, t.description, t.score); err != nil {
				return fmt.Errorf("seed: insert behavior type %s: %w", t.name, err)
			}
		}
	}

	var itemCount int
	if err := db.GetContext(ctx, &itemCount, "SELECT COUNT(*) FROM score_items"); err != nil {
		return fmt.Errorf("seed: count score items: %w", err)
	}
	if itemCount == 0 {
		for _, it := range defaultScoreItems {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO score_items (name, category, score, description) VALUES (?, ?, ?, ?)",
				it.name, it.category, it.score, it.description); err != nil {
				return fmt.Errorf("seed: insert score item %s: %w", it.name, err)
			}
		}
	}

	return nil
}
