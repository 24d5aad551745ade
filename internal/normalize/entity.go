package normalize

import (
	"regexp"
	"strings"

	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/constants"
	"github.com/aman-zulfiqar/solana-dao-dashboard/internal/models"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// realm_json arrives either as JSON or as a loose JS-object dump.
var realmNameRe = regexp.MustCompile(`(?:name:|"name":)\s*"([^"]+)"`)

const councilMintMarker = "use_council_mint: true"

// NormalizeDAO builds a DAO listing entry from a realm row.
func NormalizeDAO(row models.RawRow) models.DAO {
	var realmJSON string
	if v, _, ok := Lookup(row, []string{"realm_json"}); ok {
		realmJSON, _ = v.(string)
	}

	dao := models.DAO{
		Name:     daoName(row, realmJSON),
		HasToken: daoHasToken(row, realmJSON),
	}

	if n, ok := LookupNumber(row, []string{"proposal_count"}); ok {
		dao.ProposalCount = &n
	}
	if n, ok := LookupNumber(row, []string{"member_count"}); ok {
		dao.MemberCount = &n
	}
	if v, _, ok := Lookup(row, constants.DAOAddressFields); ok {
		dao.Address = canonicalAddress(ToString(v))
	}
	if v, _, ok := Lookup(row, constants.DAOCreatedFields); ok {
		dao.CreatedAt = ToString(v)
	}
	if v, _, ok := Lookup(row, constants.DAONewAccountField); ok {
		dao.NewAccount = ToString(v)
	}
	return dao
}

// NormalizeDAOs maps every row and keeps at most limit entries. A limit
// of zero or less keeps everything.
func NormalizeDAOs(rs *models.ResultSet, limit int, logger *logrus.Logger) []models.DAO {
	if logger == nil {
		logger = logrus.New()
	}

	out := []models.DAO{}
	if rs == nil {
		return out
	}
	for _, row := range rs.Rows {
		if limit > 0 && len(out) == limit {
			break
		}
		dao := NormalizeDAO(row)
		if dao.Address == "" {
			if v, key, ok := Lookup(row, constants.DAOAddressFields); ok {
				logger.WithFields(logrus.Fields{
					"dao":    dao.Name,
					"column": key,
					"value":  ToString(v),
				}).Debug("discarding realm address that is not a 32 byte public key")
			}
		}
		out = append(out, dao)
	}
	return out
}

func daoName(row models.RawRow, realmJSON string) string {
	if m := realmNameRe.FindStringSubmatch(realmJSON); m != nil {
		return m[1]
	}
	if v, _, ok := Lookup(row, constants.DAONameFields); ok {
		return ToString(v)
	}
	return constants.UnknownDAOName
}

// daoHasToken reads the first token column that exists, even if it holds a
// falsy value. Without one, a council mint in realm_json counts as a token.
func daoHasToken(row models.RawRow, realmJSON string) bool {
	if v, ok := Has(row, constants.DAOTokenFields); ok {
		return Truthy(v)
	}
	return strings.Contains(realmJSON, councilMintMarker)
}

// canonicalAddress returns the base58 form of a 32 byte public key, or ""
// when s is not one.
func canonicalAddress(s string) string {
	raw, err := base58.Decode(strings.TrimSpace(s))
	if err != nil || len(raw) != solana.PublicKeyLength {
		return ""
	}
	return solana.PublicKeyFromBytes(raw).String()
}
