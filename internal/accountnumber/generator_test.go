package accountnumber

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/errorspkg"
)

func TestNext(t *testing.T) {
	testCases := []struct {
		name          string
		buildStubs    func(oracle *MockOracle)
		checkResponse func(t *testing.T, number string, err error)
	}{
		{
			name: "OK",
			buildStubs: func(oracle *MockOracle) {
				oracle.EXPECT().
					NumberExists(gomock.Any(), gomock.Any()).
					Times(1).
					Return(false, nil)
			},
			checkResponse: func(t *testing.T, number string, err error) {
				require.NoError(t, err)
				require.Len(t, number, Length)

				for _, r := range number {
					require.GreaterOrEqual(t, r, '0')
					require.LessOrEqual(t, r, '9')
				}
			},
		},
		{
			name: "RedrawsOnCollision",
			buildStubs: func(oracle *MockOracle) {
				gomock.InOrder(
					oracle.EXPECT().
						NumberExists(gomock.Any(), gomock.Any()).
						Times(3).
						Return(true, nil),
					oracle.EXPECT().
						NumberExists(gomock.Any(), gomock.Any()).
						Times(1).
						Return(false, nil),
				)
			},
			checkResponse: func(t *testing.T, number string, err error) {
				require.NoError(t, err)
				require.Len(t, number, Length)
			},
		},
		{
			name: "Exhausted",
			buildStubs: func(oracle *MockOracle) {
				oracle.EXPECT().
					NumberExists(gomock.Any(), gomock.Any()).
					Times(maxDraws).
					Return(true, nil)
			},
			checkResponse: func(t *testing.T, number string, err error) {
				require.Empty(t, number)
				require.ErrorIs(t, err, domain.ErrAccountNumbersExhausted)
			},
		},
		{
			name: "OracleError",
			buildStubs: func(oracle *MockOracle) {
				oracle.EXPECT().
					NumberExists(gomock.Any(), gomock.Any()).
					Times(1).
					Return(false, errorspkg.ErrInternal)
			},
			checkResponse: func(t *testing.T, number string, err error) {
				require.Empty(t, number)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			oracle := NewMockOracle(ctrl)
			tc.buildStubs(oracle)

			number, err := New(oracle).Next(context.Background())
			tc.checkResponse(t, number, err)
		})
	}
}
