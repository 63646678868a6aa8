package testutil

const loginPage = `<html><body>
	<form name="formLogin" method="post" action="Login.aspx">
		<!-- error -->
		<input type="hidden" name="k" value="a1b2c3">
		<input type="text" name="NoDA">
		<input type="password" name="PasswordEtu">
		<input type="submit" value="Connexion">
	</form>
</body></html>`

const homePage = `<html><body>
	<a href="/intr/Module/Lea/Default.aspx">Léa</a>
	<a href="/intr/Module/Calendrier/Default.aspx">Calendrier</a>
	<div id="quoi-de-neuf">
		<div class="qdn-item"><a href="/cvir/doce/Default.aspx?C=101">1 new document in Physics NYA</a></div>
		<div class="qdn-item"><a href="/cvir/dtrv/Default.aspx?C=202">1 new assignment in
			Calculus I</a></div>
	</div>
</body></html>`

const leaPage = `<html><body>
	<div class="cours">
		<span>Physics NYA</span>
		<a href="/cvir/doce/Default.aspx?C=101">Documents</a>
		<a href="/cvir/dtrv/Default.aspx?C=101">Travaux</a>
	</div>
	<div class="cours">
		<span>Calculus I</span>
		<a href="/cvir/doce/Default.aspx?C=202">Documents</a>
		<a href="/cvir/dtrv/Default.aspx?C=202">Travaux</a>
	</div>
</body></html>`

const physicsDocuments = `<html><body>
	<div class="TitrePageLigne2">Physics NYA</div>
	<table>
		<tr class="itemDataGrid">
			<td><img src="/images/etoile.gif"></td>
			<td><div><a href="/doc/1">Syllabus.pdf</a></div></td>
			<td>Aug 20, 2024</td>
			<td></td>
		</tr>
		<tr class="itemDataGridAltern">
			<td></td>
			<td><div><a href="/doc/2">Lab guidelines</a></div></td>
			<td>Aug 27, 2024</td>
			<td>Download</td>
		</tr>
	</table>
</body></html>`

const calculusDocuments = `<html><body>
	<div class="TitrePageLigne2">Calculus I</div>
	<table>
		<tr class="itemDataGrid">
			<td></td>
			<td><div><a href="/doc/3">Limits.pdf</a></div></td>
			<td>Sep 3, 2024</td>
			<td>Download</td>
		</tr>
	</table>
</body></html>`

const physicsAssignments = `<html><body>
	<div class="TitrePageLigne2">Physics NYA</div>
	<table id="tabListeTravEtu">
		<tr><th></th><th>Title</th><th>Distributed</th><th>Copy</th></tr>
		<tr height="30">
			<td></td>
			<td>Lab 1</td>
			<td>Sep-3, 2024
				23:59</td>
			<td><table><tr><td><img src="/images/check.gif"></td><td><a href="/copy/1">Submitted copy</a></td></tr></table></td>
		</tr>
	</table>
</body></html>`

const calculusAssignments = `<html><body>
	<div class="TitrePageLigne2">Calculus I</div>
	<table id="tabListeTravEtu">
		<tr><th></th><th>Title</th><th>Distributed</th><th>Copy</th></tr>
		<tr height="30">
			<td><img src="/images/etoile.gif"></td>
			<td>Problem set 1</td>
			<td>Sep-10, 2024</td>
			<td></td>
		</tr>
	</table>
</body></html>`

const calendarList = `<html><body>
	<a href="/intr/Module/Calendrier/ChangerAffichage.aspx">Changer l'affichage</a>
	<table id="tblCalendrierEvenement"><tr><td>
		<div>toolbar</div>
		<div>legend</div>
		<div>filters</div>
		<div>
			<div>
				<div><div>Fri</div><div>15</div><div>March</div></div>
				<div><img src="/images/event.gif"></div>
				<div><h3>Midterm</h3><div><span>Physics NYA</span>Bring a calculator.</div></div>
			</div>
			<div>
				<div><div>Mon</div><div>1</div><div>April</div></div>
				<div><img src="/images/event.gif"></div>
				<div><h3>Pedagogical day</h3></div>
			</div>
		</div>
	</td></tr></table>
</body></html>`

const calendarGrid = `<html><body>
	<a href="/intr/Module/Calendrier/ChangerAffichage.aspx">Changer l'affichage</a>
	<table id="tblCalendrierEvenement"><tr><td>
		<div>month grid</div>
	</td></tr></table>
</body></html>`

func defaultPages() map[string]string {
	return map[string]string{
		HomePath:                    homePage,
		LeaPath:                     leaPage,
		DocumentsPath + "?C=101":     physicsDocuments,
		DocumentsPath + "?C=202":     calculusDocuments,
		AssignmentsPath + "?C=101":   physicsAssignments,
		AssignmentsPath + "?C=202":   calculusAssignments,
		CalendarPath + "?mode=list": calendarList,
		CalendarPath + "?mode=grid": calendarGrid,
	}
}
