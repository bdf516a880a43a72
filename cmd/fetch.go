package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vlo-krakow/timetable/internal/dateutil"
)

var (
	fetchDate   string
	fetchClass  string
	fetchDetail bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one weekly timetable and print it as JSON",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "date inside the requested week (YYYY-MM-DD, default today)")
	fetchCmd.Flags().StringVar(&fetchClass, "class", "", "class name, e.g. 2a")
	fetchCmd.Flags().BoolVar(&fetchDetail, "detail", false, "include raw record details in each entry")
	if err := fetchCmd.MarkFlagRequired("class"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	date := time.Now()
	if fetchDate != "" {
		var err error
		date, err = time.Parse(dateutil.Format, fetchDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tt, err := svc.Timetable(ctx, date, fetchClass, fetchDetail)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tt)
}
