package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

func TestView_IsFeature(t *testing.T) {
	for _, v := range types.FeatureViews() {
		gt.B(t, v.IsFeature()).Describef("view %s", v).True()
		gt.B(t, v.IsValid()).True()
	}

	gt.B(t, types.ViewAuth.IsFeature()).False()
	gt.B(t, types.ViewDashboard.IsFeature()).False()
	gt.B(t, types.ViewAuth.IsValid()).True()
	gt.B(t, types.View("settings").IsValid()).False()
}

func TestParseView(t *testing.T) {
	v, err := types.ParseView("similar-cases")
	gt.NoError(t, err)
	gt.V(t, v).Equal(types.ViewSimilarCases)

	_, err = types.ParseView("nope")
	gt.Error(t, err)
}
