package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  "Create, list and reset passwords of admin, teacher, student and alumni accounts.",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Run:   runUserList,
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	Run:   runUserCreate,
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password [email]",
	Short: "Reset user password",
	Args:  cobra.ExactArgs(1),
	Run:   runUserResetPassword,
}

var userLegacyCmd = &cobra.Command{
	Use:   "legacy-passwords",
	Short: "List accounts whose password is not stored as a bcrypt hash",
	Run:   runUserLegacy,
}

var (
	userEmail    string
	userPassword string
	userRole     string
	userName     string
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userResetPasswordCmd)
	userCmd.AddCommand(userLegacyCmd)

	userCreateCmd.Flags().StringVarP(&userEmail, "email", "e", "", "User email (required)")
	userCreateCmd.Flags().StringVarP(&userPassword, "password", "p", "", "User password (required)")
	userCreateCmd.Flags().StringVarP(&userRole, "role", "r", "admin", "User role (admin/teacher/student/alumni)")
	userCreateCmd.Flags().StringVarP(&userName, "name", "n", "", "Display name")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")

	userResetPasswordCmd.Flags().StringVarP(&userPassword, "password", "p", "", "New password (required)")
	userResetPasswordCmd.MarkFlagRequired("password")
}

type userServices struct {
	repo  *repository.UserRepository
	auth  *services.AuthService
	users *services.UserService
	close func()
}

func openUserServices(cmd *cobra.Command) userServices {
	cfg, db := openDB(cmd.Context())
	repo := repository.NewUserRepository(db)
	auth := services.NewAuthService(repo, cfg.Security.LegacyPlaintextPasswords)
	return userServices{
		repo:  repo,
		auth:  auth,
		users: services.NewUserService(repo, auth),
		close: func() { db.Close() },
	}
}

func printUsers(users []*models.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tCREATED")
	for _, u := range users {
		active := "yes"
		if !u.IsActive {
			active = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Email, u.Name, u.Role, active, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func runUserList(cmd *cobra.Command, args []string) {
	s := openUserServices(cmd)
	defer s.close()

	users, err := s.users.List(cmd.Context())
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	printUsers(users)
}

func runUserCreate(cmd *cobra.Command, args []string) {
	s := openUserServices(cmd)
	defer s.close()

	name := userName
	if name == "" {
		name, _, _ = strings.Cut(userEmail, "@")
	}

	user, err := s.users.Create(cmd.Context(), services.UserInput{
		Email:    userEmail,
		Name:     name,
		Role:     strings.ToUpper(userRole),
		Password: userPassword,
		IsActive: true,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User %s created successfully (ID: %d, role: %s)\n", user.Email, user.ID, user.Role)
}

func runUserResetPassword(cmd *cobra.Command, args []string) {
	s := openUserServices(cmd)
	defer s.close()

	email := strings.ToLower(strings.TrimSpace(args[0]))
	user, err := s.repo.GetByEmail(cmd.Context(), email)
	if err != nil {
		log.Fatalf("User not found: %s", email)
	}

	if err := s.auth.SetPassword(cmd.Context(), user.ID, userPassword); err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	fmt.Printf("Password for %s updated successfully\n", email)
}

func runUserLegacy(cmd *cobra.Command, args []string) {
	s := openUserServices(cmd)
	defer s.close()

	users, err := s.auth.LegacyPasswordUsers(cmd.Context())
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(users) == 0 {
		fmt.Println("All passwords are hashed")
		return
	}

	printUsers(users)
	fmt.Printf("\n%d account(s) still store a plaintext password. Reset them with:\n", len(users))
	fmt.Println("  enscho user reset-password EMAIL -p NEWPASSWORD")
}
