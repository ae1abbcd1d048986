package usecase

import (
	"github.com/secmon-lab/recmu/pkg/domain/model"
	"github.com/secmon-lab/recmu/pkg/domain/model/config"
)

// RenderPanel builds the view tree for a query result.
//
// A failed result renders only the error message. Any other result renders
// the heading, the value (loading text while pending) and the navigation link.
func RenderPanel(result model.CountResult, labels *config.Panel) *model.Node {
	if labels == nil {
		labels = config.DefaultPanel()
	}

	if result.Status == model.StatusFailed {
		return &model.Node{Kind: model.NodeParagraph, Text: labels.ErrorMessage}
	}

	value := labels.LoadingText
	if result.Status == model.StatusSucceeded {
		value = result.Count.String()
	}

	return &model.Node{
		Kind: model.NodeFragment,
		Children: []*model.Node{
			{Kind: model.NodeHeading, Text: labels.Heading},
			{Kind: model.NodeValue, Text: value},
			{
				Kind: model.NodeBlock,
				Children: []*model.Node{
					{
						Kind:   model.NodeLink,
						Text:   labels.LinkLabel,
						Href:   labels.LinkPath,
						Styles: []string{model.StyleNavLink},
					},
				},
			},
		},
	}
}
