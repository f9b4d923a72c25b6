package cmd

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/imgcdn-cli/internal/cdnurl"
	"github.com/spf13/cobra"
)

var (
	urlAccount            string
	urlVersion            string
	urlTransformations    []string
	urlChained            []string
	urlFormat             string
	urlWidth              int
	urlHeight             int
	urlCNAME              string
	urlSecureDistribution string
	urlPrivateCDN         bool
	urlInsecure           bool
	urlFlag               string
)

var urlCmd = &cobra.Command{
	Use:   "url <public_id>",
	Short: "Print the transformation URL for one asset",
	Example: `  imgcdn url --account demo -t c_fill,g_auto --width 640 folder/pic
  imgcdn url --account demo --chain e_grayscale --chain e_blur:300 pic`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	f := urlCmd.Flags()
	f.StringVar(&urlAccount, "account", "", "account name (overrides config)")
	f.StringVar(&urlVersion, "version", "", "asset version")
	f.StringSliceVarP(&urlTransformations, "transformations", "t", nil, "primary transformation tokens")
	f.StringArrayVar(&urlChained, "chain", nil, "chained stage, comma separated tokens (repeatable)")
	f.StringVarP(&urlFormat, "format", "f", "", "output format token")
	f.IntVar(&urlWidth, "width", 0, "width token")
	f.IntVar(&urlHeight, "height", 0, "height token")
	f.StringVar(&urlCNAME, "cname", "", "custom delivery host")
	f.StringVar(&urlSecureDistribution, "secure-distribution", "", "private CDN host for https")
	f.BoolVar(&urlPrivateCDN, "private-cdn", false, "deliver through the private CDN host")
	f.BoolVar(&urlInsecure, "insecure", false, "use http")
	f.StringVar(&urlFlag, "flag", "", "trailing flag segment, e.g. fl_getinfo")
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions("")
	if err != nil {
		return err
	}
	id := cdnurl.Identity{Account: opts.Account, PublicID: args[0], Version: urlVersion}
	if urlAccount != "" {
		id.Account = urlAccount
	}
	if strings.TrimSpace(id.Account) == "" {
		return fmt.Errorf("no account: pass --account or set it in the config")
	}

	req := cdnurl.Request{
		Transformations: urlTransformations,
		Format:          urlFormat,
		Domain:          opts.Domain,
		Insecure:        opts.Insecure || urlInsecure,
		Flag:            urlFlag,
	}
	if urlWidth > 0 || urlHeight > 0 {
		req.Transformations = cdnurl.WithSize(req.Transformations, urlWidth, urlHeight)
	}
	for _, stage := range urlChained {
		req.Chained = append(req.Chained, cdnurl.SplitTokens(stage))
	}

	f := cmd.Flags()
	if f.Changed("cname") {
		req.Domain.CNAME = urlCNAME
	}
	if f.Changed("secure-distribution") {
		req.Domain.SecureDistribution = urlSecureDistribution
	}
	if f.Changed("private-cdn") {
		req.Domain.PrivateCDN = urlPrivateCDN
	}

	fmt.Println(cdnurl.Build(id, req))
	return nil
}
