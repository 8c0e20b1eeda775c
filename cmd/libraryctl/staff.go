package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xiebiao/library/internal/domain/staff"
	"github.com/xiebiao/library/internal/infrastructure/persistence/sqlstore"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func newCreateStaffCmd() *cobra.Command {
	var email, name, role string

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "创建工作人员账号（首个管理员用它创建）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := loadConfig()
			if err != nil {
				return err
			}
			defer closeLog()

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			db, closeDB, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			svc := staff.NewService(sqlstore.NewStaffRepository(db), 0)
			s, err := svc.Create(cmd.Context(), email, password, name, role)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created staff #%d %s (%s)\n", s.ID, s.Email, s.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "登录邮箱")
	cmd.Flags().StringVar(&name, "name", "", "姓名")
	cmd.Flags().StringVar(&role, "role", staff.RoleLibrarian, "角色 admin | librarian")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// promptPassword 终端下不回显读取两次密码；非终端时从标准输入读一行
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
			return "", fmt.Errorf("读取密码失败: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	out := cmd.ErrOrStderr()
	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	fmt.Fprint(out, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("两次输入的密码不一致")
	}
	return string(first), nil
}

// describe 把字段级错误展开成一行
func describe(err error) error {
	if !apperrors.IsAppError(err) {
		return err
	}
	appErr := apperrors.GetAppError(err)
	if len(appErr.Fields) == 0 {
		return err
	}
	parts := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Errorf("%s (%s)", appErr.Message, strings.Join(parts, "; "))
}
